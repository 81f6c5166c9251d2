// Copyright 2026 Plexity Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chatstore

import (
	"log/slog"
	"sync"

	"github.com/plexity/chatstore/auth"
	"github.com/plexity/chatstore/storage"
	"github.com/plexity/chatstore/storage/badger"
)

// Database bundles the backend with one repository per record kind and the
// credential gate in front of the user store.
type Database struct {
	backend        *badger.Backend
	userRepo       storage.UserRepository
	chatRepo       storage.ChatRepository
	documentRepo   storage.DocumentRepository
	suggestionRepo storage.SuggestionRepository
	gate           *auth.Gate
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
}

// WithInMemory opens the backend in memory instead of on disk. Intended for
// tests and throwaway tooling runs.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	userRepo := badger.NewUserRepository(backend)

	return &Database{
		backend:        backend,
		userRepo:       userRepo,
		chatRepo:       badger.NewChatRepository(backend),
		documentRepo:   badger.NewDocumentRepository(backend),
		suggestionRepo: badger.NewSuggestionRepository(backend),
		gate:           auth.NewGate(userRepo),
		logger:         slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Users() storage.UserRepository {
	return db.userRepo
}

func (db *Database) Chats() storage.ChatRepository {
	return db.chatRepo
}

func (db *Database) Documents() storage.DocumentRepository {
	return db.documentRepo
}

func (db *Database) Suggestions() storage.SuggestionRepository {
	return db.suggestionRepo
}

func (db *Database) Gate() *auth.Gate {
	return db.gate
}

var (
	connectOnce sync.Once
	connectDB   *Database
	connectErr  error
)

// Connect opens the process-wide database handle. The first call decides the
// path; later calls return the same handle and ignore their arguments, even
// when the first call failed.
func Connect(filePath string, opts ...DatabaseOption) (*Database, error) {
	connectOnce.Do(func() {
		connectDB, connectErr = NewDatabase(filePath, opts...)
	})
	return connectDB, connectErr
}
