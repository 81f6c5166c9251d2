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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/plexity/chatstore/storage/badger"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}

	app := &cli.App{
		Name:  "chatstore",
		Usage: "Persistence store for conversational data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "Manage user accounts",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create a user account",
						Action: userCreateCommand,
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:     "email",
								Usage:    "Account email",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "password",
								Usage:    "Account password",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List all user accounts",
						Action: userListCommand,
						Flags:  []cli.Flag{dbFlag},
					},
				},
			},
			{
				Name:   "chats",
				Usage:  "List a user's chats",
				Action: chatListCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Owner user id",
						Required: true,
					},
				},
			},
			{
				Name:   "documents",
				Usage:  "List a user's documents",
				Action: documentListCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Owner user id",
						Required: true,
					},
				},
			},
			{
				Name:   "suggestions",
				Usage:  "List a document's suggestions",
				Action: suggestionListCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "document",
						Usage:    "Document id",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openBackend(c *cli.Context) (*badger.Backend, error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return backend, nil
}

func userCreateCommand(c *cli.Context) error {
	backend, err := openBackend(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := badger.NewUserRepository(backend)
	user, err := repo.Create(context.Background(), c.String("email"), c.String("password"))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Println(user.ID)
	return nil
}

func userListCommand(c *cli.Context) error {
	backend, err := openBackend(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := badger.NewUserRepository(backend)
	users, err := repo.List(context.Background())
	if err != nil {
		return err
	}

	for _, u := range users {
		fmt.Printf("%s\t%s\n", u.ID, u.Email)
	}
	return nil
}

func chatListCommand(c *cli.Context) error {
	backend, err := openBackend(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := badger.NewChatRepository(backend)
	chats, err := repo.ListByUser(context.Background(), c.String("user"))
	if err != nil {
		return err
	}

	for _, chat := range chats {
		fmt.Printf("%s\t%s\t%d messages\n", chat.ID, chat.CreatedAt.Format("2006-01-02 15:04:05"), len(chat.Messages))
	}
	return nil
}

func documentListCommand(c *cli.Context) error {
	backend, err := openBackend(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	docs, err := repo.ListByUser(context.Background(), c.String("user"))
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Printf("%s\t%s\t%s\n", doc.ID, doc.CreatedAt.Format("2006-01-02 15:04:05"), doc.Title)
	}
	return nil
}

func suggestionListCommand(c *cli.Context) error {
	backend, err := openBackend(c)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo := badger.NewSuggestionRepository(backend)
	suggestions, err := repo.ListByDocument(context.Background(), c.String("document"))
	if err != nil {
		return err
	}

	for _, s := range suggestions {
		resolved := " "
		if s.IsResolved {
			resolved = "x"
		}
		fmt.Printf("[%s] %s\t%s -> %s\n", resolved, s.ID, s.OriginalText, s.SuggestedText)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
