package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/plexity/chatstore/core"
	"github.com/plexity/chatstore/storage"
)

const documentListPolicy = storage.FailOpen

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{
		backend: backend,
		logger:  slog.Default(),
	}
}

// Save writes the document record and its owner-index entry in one batch,
// assigning the creation timestamp.
func (r *DocumentRepository) Save(ctx context.Context, id, title, content, userID string) error {
	doc := &core.Document{
		ID:        id,
		Title:     title,
		Content:   content,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	p := r.backend.Pipeline()
	p.SetHashFields(documentKey(id), storage.EncodeDocument(doc))
	p.ZAdd(userDocumentIndex(userID), doc.CreatedAt.UnixMilli(), documentKey(id))
	return p.Exec()
}

// GetByID retrieves a single document. Returns (nil, nil) if absent.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*core.Document, error) {
	fields, err := r.backend.GetHash(ctx, documentKey(id))
	if err != nil {
		return nil, err
	}
	return storage.DecodeDocument(fields), nil
}

// ListByUser returns the owner's documents in index order, oldest first.
// Chats and suggestions list newest-first; documents never have. Callers
// depend on the insertion order, so it stays.
func (r *DocumentRepository) ListByUser(ctx context.Context, userID string) ([]*core.Document, error) {
	members, err := r.backend.ZRange(ctx, userDocumentIndex(userID), 0, -1, false)
	if err != nil {
		return r.degrade(userID, err)
	}
	if len(members) == 0 {
		return []*core.Document{}, nil
	}

	hashes, err := r.backend.GetHashes(ctx, members)
	if err != nil {
		return r.degrade(userID, err)
	}

	docs := make([]*core.Document, 0, len(hashes))
	for _, fields := range hashes {
		if doc := storage.DecodeDocument(fields); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteByID deletes the document record, then removes its owner-index
// entry. Not atomic; the listing path tolerates the gap.
func (r *DocumentRepository) DeleteByID(ctx context.Context, id, userID string) error {
	if err := r.backend.DeleteKey(ctx, documentKey(id)); err != nil {
		return err
	}
	return r.backend.ZRem(ctx, userDocumentIndex(userID), documentKey(id))
}

// DeleteAfterTimestamp removes every document of the owner whose stored
// creation time is strictly after cutoff, queueing the record deletion and
// index removal for each in a single batch. Documents at or before the
// cutoff are untouched. This is the rollback path for edit sessions being
// reverted; it is a write operation and store failures propagate.
func (r *DocumentRepository) DeleteAfterTimestamp(ctx context.Context, userID string, cutoff time.Time) error {
	indexKey := userDocumentIndex(userID)

	members, err := r.backend.ZRange(ctx, indexKey, 0, -1, false)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	hashes, err := r.backend.GetHashes(ctx, members)
	if err != nil {
		return err
	}

	p := r.backend.Pipeline()
	for i, fields := range hashes {
		doc := storage.DecodeDocument(fields)
		if doc == nil {
			continue
		}
		if doc.CreatedAt.After(cutoff) {
			p.DeleteKey(members[i])
			p.ZRem(indexKey, members[i])
		}
	}
	return p.Exec()
}

func (r *DocumentRepository) degrade(userID string, err error) ([]*core.Document, error) {
	if documentListPolicy == storage.FailOpen {
		r.logger.Warn("document listing degraded to empty", "userId", userID, "err", err)
		return []*core.Document{}, nil
	}
	return nil, err
}
