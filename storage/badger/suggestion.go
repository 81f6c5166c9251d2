package badger

import (
	"context"
	"log/slog"
	"time"

	"github.com/plexity/chatstore/core"
	"github.com/plexity/chatstore/storage"
)

const suggestionListPolicy = storage.FailOpen

// SuggestionRepository implements storage.SuggestionRepository for BadgerDB.
type SuggestionRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.SuggestionRepository = (*SuggestionRepository)(nil)

// NewSuggestionRepository creates a new SuggestionRepository.
func NewSuggestionRepository(backend *Backend) *SuggestionRepository {
	return &SuggestionRepository{
		backend: backend,
		logger:  slog.Default(),
	}
}

// SaveMany writes each suggestion plus its owner-index and document-index
// entries in a single batch. Suggestions arriving without a creation
// timestamp get one stamped in place on the caller's struct; that mutation
// is how the caller learns the assigned value.
func (r *SuggestionRepository) SaveMany(ctx context.Context, suggestions []*core.Suggestion) error {
	now := time.Now().UTC()

	p := r.backend.Pipeline()
	for _, s := range suggestions {
		if err := core.ValidateSuggestion(s); err != nil {
			p.Cancel()
			return err
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}

		key := suggestionKey(s.ID)
		score := s.CreatedAt.UnixMilli()
		p.SetHashFields(key, storage.EncodeSuggestion(s))
		p.ZAdd(userSuggestionIndex(s.UserID), score, key)
		p.ZAdd(documentSuggestionsIndex(s.DocumentID), score, key)
	}
	return p.Exec()
}

// GetByID retrieves a single suggestion. Returns (nil, nil) if absent.
func (r *SuggestionRepository) GetByID(ctx context.Context, id string) (*core.Suggestion, error) {
	fields, err := r.backend.GetHash(ctx, suggestionKey(id))
	if err != nil {
		return nil, err
	}
	return storage.DecodeSuggestion(fields), nil
}

// ListByUser returns the owner's suggestions newest-first, fail-open.
func (r *SuggestionRepository) ListByUser(ctx context.Context, userID string) ([]*core.Suggestion, error) {
	return r.list(ctx, userSuggestionIndex(userID))
}

// ListByDocument returns a document's suggestions newest-first with the same
// miss-filtering and fail-open behavior as ListByUser.
func (r *SuggestionRepository) ListByDocument(ctx context.Context, documentID string) ([]*core.Suggestion, error) {
	return r.list(ctx, documentSuggestionsIndex(documentID))
}

// DeleteByID deletes the suggestion record, then removes its owner-index and
// document-index entries. The document id is read from the record before
// deletion so the per-document entry can be located.
func (r *SuggestionRepository) DeleteByID(ctx context.Context, id, userID string) error {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.backend.DeleteKey(ctx, suggestionKey(id)); err != nil {
		return err
	}
	if err := r.backend.ZRem(ctx, userSuggestionIndex(userID), suggestionKey(id)); err != nil {
		return err
	}
	if s != nil && s.DocumentID != "" {
		return r.backend.ZRem(ctx, documentSuggestionsIndex(s.DocumentID), suggestionKey(id))
	}
	return nil
}

func (r *SuggestionRepository) list(ctx context.Context, indexKey string) ([]*core.Suggestion, error) {
	members, err := r.backend.ZRange(ctx, indexKey, 0, -1, true)
	if err != nil {
		return r.degrade(indexKey, err)
	}
	if len(members) == 0 {
		return []*core.Suggestion{}, nil
	}

	hashes, err := r.backend.GetHashes(ctx, members)
	if err != nil {
		return r.degrade(indexKey, err)
	}

	result := make([]*core.Suggestion, 0, len(hashes))
	for _, fields := range hashes {
		if s := storage.DecodeSuggestion(fields); s != nil {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *SuggestionRepository) degrade(indexKey string, err error) ([]*core.Suggestion, error) {
	if suggestionListPolicy == storage.FailOpen {
		r.logger.Warn("suggestion listing degraded to empty", "index", indexKey, "err", err)
		return []*core.Suggestion{}, nil
	}
	return nil, err
}
