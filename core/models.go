package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent derives a deterministic id from text content using BLAKE2b
// hashing. Identical content always yields the same id, so bulk loads that
// derive ids this way overwrite instead of duplicating.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// User is an account record keyed by email. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID       string
	Email    string
	Password string
}

// Message is one entry in a chat's ordered message list. The JSON field names
// match the array elements the web client writes into the messages field.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Chat is a stored conversation. Messages is the only nested field; it is
// serialized to a JSON array when persisted.
type Chat struct {
	ID        string
	Messages  []Message
	UserID    string
	CreatedAt time.Time
}

// Document is a stored artifact produced during a conversation.
type Document struct {
	ID        string
	Title     string
	Content   string
	UserID    string
	CreatedAt time.Time
}

// Suggestion is a proposed edit against a document.
type Suggestion struct {
	ID                string
	DocumentID        string
	DocumentCreatedAt time.Time
	OriginalText      string
	SuggestedText     string
	Description       string
	IsResolved        bool
	UserID            string
	CreatedAt         time.Time
}
