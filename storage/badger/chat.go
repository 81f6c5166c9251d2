package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/plexity/chatstore/core"
	"github.com/plexity/chatstore/storage"
)

// Chat listings feed conversation history renders; a transient index failure
// degrades to an empty page rather than an error.
const chatListPolicy = storage.FailOpen

// ChatRepository implements storage.ChatRepository for BadgerDB.
type ChatRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) *ChatRepository {
	return &ChatRepository{
		backend: backend,
		logger:  slog.Default(),
	}
}

// Save writes the chat record and its owner-index entry in one batch. The
// creation timestamp is assigned here; saving an existing id overwrites the
// record and re-scores its index entry.
func (r *ChatRepository) Save(ctx context.Context, id string, messages []core.Message, userID string) error {
	chat := &core.Chat{
		ID:        id,
		Messages:  messages,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := core.ValidateChat(chat); err != nil {
		return err
	}

	p := r.backend.Pipeline()
	p.SetHashFields(chatKey(id), storage.EncodeChat(chat))
	p.ZAdd(userChatIndex(userID), chat.CreatedAt.UnixMilli(), chatKey(id))
	return p.Exec()
}

// GetByID retrieves a single chat. Returns (nil, nil) if absent.
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*core.Chat, error) {
	fields, err := r.backend.GetHash(ctx, chatKey(id))
	if err != nil {
		return nil, err
	}
	return storage.DecodeChat(fields), nil
}

// ListByUser returns the owner's chats newest-first. Dangling index entries
// are dropped; store failures degrade per chatListPolicy.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*core.Chat, error) {
	members, err := r.backend.ZRange(ctx, userChatIndex(userID), 0, -1, true)
	if err != nil {
		return r.degrade(userID, err)
	}
	if len(members) == 0 {
		return []*core.Chat{}, nil
	}

	hashes, err := r.backend.GetHashes(ctx, members)
	if err != nil {
		return r.degrade(userID, err)
	}

	chats := make([]*core.Chat, 0, len(hashes))
	for _, fields := range hashes {
		if chat := storage.DecodeChat(fields); chat != nil {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// DeleteByID deletes the chat record, then removes its owner-index entry.
// The two steps are not atomic; a crash between them leaves a dangling index
// entry that ListByUser filters out.
func (r *ChatRepository) DeleteByID(ctx context.Context, id, userID string) error {
	if err := r.backend.DeleteKey(ctx, chatKey(id)); err != nil {
		return err
	}
	return r.backend.ZRem(ctx, userChatIndex(userID), chatKey(id))
}

// degrade applies the listing read policy to a store failure.
func (r *ChatRepository) degrade(userID string, err error) ([]*core.Chat, error) {
	if chatListPolicy == storage.FailOpen {
		r.logger.Warn("chat listing degraded to empty", "userId", userID, "err", err)
		return []*core.Chat{}, nil
	}
	return nil, err
}
