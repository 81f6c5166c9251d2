package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexity/chatstore/core"
)

func TestDocumentSaveAndGet(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	err = repo.Save(ctx, "doc-1", "My Essay", "Once upon a time.", "user-1")
	require.NoError(t, err)

	doc, err := repo.GetByID(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "My Essay", doc.Title)
	assert.Equal(t, "Once upon a time.", doc.Content)
	assert.Equal(t, "user-1", doc.UserID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentGetByID_Missing(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)

	doc, err := repo.GetByID(context.Background(), "no-such-doc")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentSave_Invalid(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	err = repo.Save(ctx, "", "title", "content", "user-1")
	assert.ErrorIs(t, err, core.ErrEmptyID)

	err = repo.Save(ctx, "doc-1", "title", "content", "")
	assert.ErrorIs(t, err, core.ErrEmptyOwner)
}

func TestDocumentListByUser_InsertionOrder(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Save(ctx, id, "t", "c", "user-1"))
		time.Sleep(2 * time.Millisecond)
	}

	// Oldest first, unlike the chat and suggestion listings.
	docs, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "first", docs[0].ID)
	assert.Equal(t, "second", docs[1].ID)
	assert.Equal(t, "third", docs[2].ID)
}

func TestDocumentListByUser_Empty(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)

	docs, err := repo.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentListByUser_StoreFailureFailsOpen(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "doc-1", "t", "c", "user-1"))
	require.NoError(t, backend.Close())

	docs, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentDeleteByID(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "doomed", "t", "c", "user-1"))
	require.NoError(t, repo.DeleteByID(ctx, "doomed", "user-1"))

	doc, err := repo.GetByID(ctx, "doomed")
	require.NoError(t, err)
	assert.Nil(t, doc)

	docs, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentDeleteAfterTimestamp(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "before", "t", "c", "user-1"))
	time.Sleep(2 * time.Millisecond)

	cutoff := time.Now().UTC()
	time.Sleep(2 * time.Millisecond)

	require.NoError(t, repo.Save(ctx, "after-1", "t", "c", "user-1"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, "after-2", "t", "c", "user-1"))

	require.NoError(t, repo.DeleteAfterTimestamp(ctx, "user-1", cutoff))

	docs, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "before", docs[0].ID)

	// Records are gone, not just the index entries.
	gone, err := repo.GetByID(ctx, "after-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDocumentDeleteAfterTimestamp_OtherOwnersUntouched(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, repo.Save(ctx, "mine", "t", "c", "user-1"))
	require.NoError(t, repo.Save(ctx, "theirs", "t", "c", "user-2"))

	require.NoError(t, repo.DeleteAfterTimestamp(ctx, "user-1", cutoff))

	docs, err := repo.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "theirs", docs[0].ID)
}

func TestDocumentDeleteAfterTimestamp_NoDocuments(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	repo := NewDocumentRepository(backend)

	err = repo.DeleteAfterTimestamp(context.Background(), "nobody", time.Now())
	require.NoError(t, err)
}
