package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/plexity/chatstore"
	"github.com/plexity/chatstore/core"
)

var sampleDialogue = [][2]string{
	{"What's a good name for a coffee shop near the harbor?", "Something nautical but warm works well. The Moored Bean, Harbor Grounds, or Slack Tide Coffee all fit."},
	{"Can you explain how tides work?", "Tides come from the moon's gravity pulling unevenly on the ocean. The near side bulges toward the moon, the far side bulges away, and the earth rotates through both bulges daily."},
	{"I need a short toast for my sister's wedding.", "Keep it to three beats: one memory of her growing up, one thing you admire about the couple, one wish for their future. Under a minute is perfect."},
	{"Why does my sourdough keep coming out dense?", "Usually underproofing. Let the bulk ferment go until the dough has grown by half and jiggles when you shake the bowl, not by the clock."},
	{"Summarize the plot of The Count of Monte Cristo.", "A young sailor is framed for treason on his wedding day, imprisoned for years, escapes with a hidden fortune, and methodically unmakes the three men who betrayed him."},
	{"What should I plant in a north-facing window box?", "Stick to shade-tolerant plants. Ferns, begonias, impatiens, and ivy will do fine without direct sun."},
	{"Help me phrase a polite decline to a meeting invite.", "Try: Thanks for including me. I can't make this one, but I'd welcome the notes and will follow up if anything needs my input."},
	{"How far is Mars from Earth right now?", "It varies from about 55 million to 400 million kilometers depending on where both planets are in their orbits. On average it's around 225 million."},
}

var sampleDocuments = [][2]string{
	{"Essay on Silmarillion", "The Silmarillion reads less like a novel and more like a translated mythology, which is precisely its appeal."},
	{"Trip notes", "Day one: arrived in Lisbon, tram 28 was packed, the custard tarts were worth the line."},
	{"Recipe draft", "Brown the butter first. Everything else in this cookie recipe is negotiable, but not that."},
}

var (
	dbPath   = flag.String("db", "./chatstore_db", "path to database directory")
	email    = flag.String("email", "seed@example.com", "seed account email")
	password = flag.String("password", "seedpassword", "seed account password")
	rounds   = flag.Int("rounds", 4, "times to replay the sample corpus")
	workers  = flag.Int("workers", 4, "seeding worker pool size")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// seedUser returns the seed account, creating it on first run.
func seedUser(ctx context.Context, db *chatstore.Database) (*core.User, error) {
	user, err := db.Users().GetByEmail(ctx, *email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return db.Users().Create(ctx, *email, *password)
}

func main() {
	db, err := chatstore.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()

	user, err := seedUser(ctx, db)
	if err != nil {
		panic(err)
	}
	slog.Info("seeding", "user", user.ID, "rounds", *rounds)

	pool, err := ants.NewPool(*workers)
	if err != nil {
		panic(err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	submit := func(task func() error) {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			record(task())
		})
		if err != nil {
			wg.Done()
			record(err)
		}
	}

	for round := 0; round < *rounds; round++ {
		for i, pair := range sampleDialogue {
			// Content-derived ids make reseeding idempotent.
			chatID := core.IDFromContent(fmt.Sprintf("chat/%d/%d/%s", round, i, pair[0]))
			messages := []core.Message{
				{ID: core.IDFromContent(chatID + "/q"), Role: "user", Content: pair[0]},
				{ID: core.IDFromContent(chatID + "/a"), Role: "assistant", Content: pair[1]},
			}
			submit(func() error {
				return db.Chats().Save(ctx, chatID, messages, user.ID)
			})
		}

		for i, doc := range sampleDocuments {
			docID := core.IDFromContent(fmt.Sprintf("document/%d/%d/%s", round, i, doc[0]))
			title, content := doc[0], doc[1]
			submit(func() error {
				if err := db.Documents().Save(ctx, docID, title, content, user.ID); err != nil {
					return err
				}
				suggestion := &core.Suggestion{
					ID:            core.IDFromContent(docID + "/suggestion"),
					DocumentID:    docID,
					OriginalText:  content,
					SuggestedText: content + " (revised)",
					Description:   "seeded revision",
					UserID:        user.ID,
				}
				return db.Suggestions().SaveMany(ctx, []*core.Suggestion{suggestion})
			})
		}
	}

	wg.Wait()

	if firstErr != nil {
		panic(firstErr)
	}

	chats, err := db.Chats().ListByUser(ctx, user.ID)
	if err != nil {
		panic(err)
	}
	docs, err := db.Documents().ListByUser(ctx, user.ID)
	if err != nil {
		panic(err)
	}
	slog.Info("seed complete", "chats", len(chats), "documents", len(docs))
}
