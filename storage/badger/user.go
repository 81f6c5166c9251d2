package badger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/plexity/chatstore/core"
	"github.com/plexity/chatstore/storage"
)

// UserRepository implements storage.UserRepository for BadgerDB.
//
// Unlike the content repositories, every operation here is fail-closed: a
// store failure during account lookup must reach the authentication layer,
// not masquerade as an unknown user.
type UserRepository struct {
	backend *Backend
}

var _ storage.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(backend *Backend) *UserRepository {
	return &UserRepository{backend: backend}
}

// Create hashes the password with bcrypt, assigns a generated id, and writes
// the account record plus its entry in the global users index in one batch.
func (r *UserRepository) Create(ctx context.Context, email, password string) (*core.User, error) {
	if err := core.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &core.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hash),
	}

	p := r.backend.Pipeline()
	p.SetHashFields(userKey(email), storage.EncodeUser(user))
	// The global index stores the raw email, not the record key.
	p.ZAdd(usersIndex, time.Now().UnixMilli(), email)
	if err := p.Exec(); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves an account by email. Returns (nil, nil) if absent;
// store failures propagate.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	fields, err := r.backend.GetHash(ctx, userKey(email))
	if err != nil {
		return nil, err
	}
	return storage.DecodeUser(fields), nil
}

// List returns all accounts in global-index order, oldest first. Dangling
// index entries are dropped.
func (r *UserRepository) List(ctx context.Context) ([]*core.User, error) {
	emails, err := r.backend.ZRange(ctx, usersIndex, 0, -1, false)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return []*core.User{}, nil
	}

	keys := make([]string, len(emails))
	for i, email := range emails {
		keys[i] = userKey(email)
	}

	hashes, err := r.backend.GetHashes(ctx, keys)
	if err != nil {
		return nil, err
	}

	users := make([]*core.User, 0, len(hashes))
	for _, fields := range hashes {
		if u := storage.DecodeUser(fields); u != nil {
			users = append(users, u)
		}
	}
	return users, nil
}
