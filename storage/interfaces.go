package storage

import (
	"context"
	"time"

	"github.com/plexity/chatstore/core"
)

// ReadPolicy controls how a listing operation responds to store failures.
type ReadPolicy int

const (
	// FailClosed propagates store failures to the caller.
	FailClosed ReadPolicy = iota
	// FailOpen swallows store failures and returns an empty result. Used on
	// listing paths that feed page renders, at the cost of making a transient
	// outage indistinguishable from "no data".
	FailOpen
)

// UserRepository provides operations for managing user accounts.
// Implementations must be safe for concurrent use.
type UserRepository interface {
	// Create hashes the password, assigns a generated id, and writes the
	// account record plus its entry in the global users index in one batch.
	// Batch failures propagate to the caller.
	Create(ctx context.Context, email, password string) (*core.User, error)

	// GetByEmail retrieves an account by email.
	// Returns (nil, nil) if no account exists. Store failures propagate:
	// this path feeds authentication and must never fail open.
	GetByEmail(ctx context.Context, email string) (*core.User, error)

	// List returns all accounts in global-index order (oldest first).
	List(ctx context.Context) ([]*core.User, error)
}

// ChatRepository provides operations for managing chat conversations.
type ChatRepository interface {
	// Save writes the chat record and its owner-index entry in one batch,
	// assigning the creation timestamp. Saving an existing id overwrites the
	// record and re-scores its index entry.
	Save(ctx context.Context, id string, messages []core.Message, userID string) error

	// GetByID retrieves a single chat. Returns (nil, nil) if absent.
	// Messages is always non-nil on a returned chat.
	GetByID(ctx context.Context, id string) (*core.Chat, error)

	// ListByUser returns the owner's chats newest-first. Index entries whose
	// record is missing are dropped; store failures degrade to an empty list.
	ListByUser(ctx context.Context, userID string) ([]*core.Chat, error)

	// DeleteByID deletes the chat record, then removes its owner-index entry.
	// The two steps are not atomic; a dangling index entry is tolerated by
	// the listing path.
	DeleteByID(ctx context.Context, id, userID string) error
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	// Save writes the document record and its owner-index entry in one batch,
	// assigning the creation timestamp.
	Save(ctx context.Context, id, title, content, userID string) error

	// GetByID retrieves a single document. Returns (nil, nil) if absent.
	GetByID(ctx context.Context, id string) (*core.Document, error)

	// ListByUser returns the owner's documents in index (insertion) order.
	// Unlike chats and suggestions this listing is not reversed; the
	// asymmetry is long-standing observable behavior and is kept.
	ListByUser(ctx context.Context, userID string) ([]*core.Document, error)

	// DeleteByID deletes the document record, then its owner-index entry.
	DeleteByID(ctx context.Context, id, userID string) error

	// DeleteAfterTimestamp removes, in one batch, every document of the owner
	// whose stored creation time is strictly after cutoff. Documents at or
	// before the cutoff are untouched. This realizes rolling back documents
	// created during an edit session that is being reverted.
	DeleteAfterTimestamp(ctx context.Context, userID string, cutoff time.Time) error
}

// SuggestionRepository provides operations for managing edit suggestions.
type SuggestionRepository interface {
	// SaveMany writes each suggestion plus its owner-index and
	// document-index entries in a single batch. A zero CreatedAt is stamped
	// in place on the caller's struct at save time; reading it back after the
	// call is how callers learn the assigned timestamp.
	SaveMany(ctx context.Context, suggestions []*core.Suggestion) error

	// GetByID retrieves a single suggestion. Returns (nil, nil) if absent.
	GetByID(ctx context.Context, id string) (*core.Suggestion, error)

	// ListByUser returns the owner's suggestions newest-first, fail-open.
	ListByUser(ctx context.Context, userID string) ([]*core.Suggestion, error)

	// ListByDocument returns a document's suggestions newest-first, with the
	// same miss-filtering and fail-open behavior as ListByUser.
	ListByDocument(ctx context.Context, documentID string) ([]*core.Suggestion, error)

	// DeleteByID deletes the suggestion record, then its owner-index and
	// document-index entries.
	DeleteByID(ctx context.Context, id, userID string) error
}
