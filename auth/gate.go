package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/plexity/chatstore/storage"
)

// ErrInvalidCredentials is returned for both unknown accounts and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// decoyHash is a bcrypt hash of a throwaway string. Authorize compares
// against it when the account does not exist so the unknown-account path
// costs the same as the wrong-password path.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Identity names an authenticated account.
type Identity struct {
	UserID string
	Email  string
}

// Gate authenticates email and password pairs against the user store.
type Gate struct {
	users storage.UserRepository
}

// NewGate creates a Gate backed by the given user repository.
func NewGate(users storage.UserRepository) *Gate {
	return &Gate{users: users}
}

// Authorize checks the credential pair and returns the account's identity.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
// Store failures propagate unchanged.
func (g *Gate) Authorize(ctx context.Context, email, password string) (*Identity, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}
