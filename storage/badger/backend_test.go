package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexity/chatstore/storage"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestBackend_ClosedOperations(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()

	// Every primitive reports the closed store as an error, never a panic.
	_, err = backend.GetHash(ctx, "chat:x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = backend.ZRange(ctx, "idx", 0, -1, true)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = backend.SetHashFields(ctx, "chat:x", map[string]string{"id": "x"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = backend.ZAdd(ctx, "idx", 1, "m")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestHash_SetAndGet(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	err = backend.SetHashFields(ctx, "chat:abc", map[string]string{
		"id":     "abc",
		"userId": "u1",
	})
	require.NoError(t, err)

	fields, err := backend.GetHash(ctx, "chat:abc")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "abc", "userId": "u1"}, fields)
}

func TestHash_AbsentIsNil(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	fields, err := backend.GetHash(context.Background(), "chat:nothing")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestHash_PartialUpdateKeepsOtherFields(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.SetHashFields(ctx, "doc:1", map[string]string{
		"title":   "first",
		"content": "body",
	}))
	require.NoError(t, backend.SetHashFields(ctx, "doc:1", map[string]string{
		"title": "second",
	}))

	fields, err := backend.GetHash(ctx, "doc:1")
	require.NoError(t, err)
	assert.Equal(t, "second", fields["title"])
	assert.Equal(t, "body", fields["content"])
}

func TestHash_KeyIsolation(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	// "chat:a" must not be picked up when scanning "chat:a:extra" or the
	// other way round; the trailing separator in the scan prefix guards it.
	require.NoError(t, backend.SetHashFields(ctx, "chat:a", map[string]string{"id": "a"}))
	require.NoError(t, backend.SetHashFields(ctx, "chat:ab", map[string]string{"id": "ab"}))

	fields, err := backend.GetHash(ctx, "chat:a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "a"}, fields)
}

func TestGetHashes_Alignment(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.SetHashFields(ctx, "chat:1", map[string]string{"id": "1"}))
	require.NoError(t, backend.SetHashFields(ctx, "chat:3", map[string]string{"id": "3"}))

	hashes, err := backend.GetHashes(ctx, []string{"chat:1", "chat:2", "chat:3"})
	require.NoError(t, err)
	require.Len(t, hashes, 3)
	assert.Equal(t, "1", hashes[0]["id"])
	assert.Nil(t, hashes[1])
	assert.Equal(t, "3", hashes[2]["id"])
}

func TestDeleteKey(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.SetHashFields(ctx, "chat:gone", map[string]string{"id": "gone"}))
	require.NoError(t, backend.DeleteKey(ctx, "chat:gone"))

	fields, err := backend.GetHash(ctx, "chat:gone")
	require.NoError(t, err)
	assert.Nil(t, fields)

	// Deleting an absent key is a no-op.
	require.NoError(t, backend.DeleteKey(ctx, "chat:gone"))
}

func TestZSet_ScoreOrdering(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.ZAdd(ctx, "idx", 300, "c"))
	require.NoError(t, backend.ZAdd(ctx, "idx", 100, "a"))
	require.NoError(t, backend.ZAdd(ctx, "idx", 200, "b"))

	asc, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, asc)

	desc, err := backend.ZRange(ctx, "idx", 0, -1, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, desc)
}

func TestZSet_ReScoreKeepsOneEntry(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.ZAdd(ctx, "idx", 100, "m"))
	require.NoError(t, backend.ZAdd(ctx, "idx", 100, "other"))
	require.NoError(t, backend.ZAdd(ctx, "idx", 900, "m"))

	members, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "m"}, members)
}

func TestZSet_Rem(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.ZAdd(ctx, "idx", 1, "a"))
	require.NoError(t, backend.ZAdd(ctx, "idx", 2, "b"))

	require.NoError(t, backend.ZRem(ctx, "idx", "a"))
	// Removing an absent member is a no-op.
	require.NoError(t, backend.ZRem(ctx, "idx", "missing"))

	members, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)
}

func TestZRange_Positions(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	for i, m := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, backend.ZAdd(ctx, "idx", int64(i), m))
	}

	tests := []struct {
		name     string
		start    int
		stop     int
		expected []string
	}{
		{"full range", 0, -1, []string{"a", "b", "c", "d", "e"}},
		{"prefix", 0, 2, []string{"a", "b", "c"}},
		{"middle", 1, 3, []string{"b", "c", "d"}},
		{"negative start", -2, -1, []string{"d", "e"}},
		{"stop past end", 3, 100, []string{"d", "e"}},
		{"start past end", 10, 20, nil},
		{"inverted", 3, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := backend.ZRange(ctx, "idx", tt.start, tt.stop, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, members)
		})
	}
}

func TestZRange_EmptySet(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	members, err := backend.ZRange(context.Background(), "nothing", 0, -1, true)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestPipeline_Exec(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	p := backend.Pipeline()
	p.SetHashFields("chat:p1", map[string]string{"id": "p1"})
	p.ZAdd("user:chat:u1", 42, "chat:p1")
	require.NoError(t, p.Exec())

	fields, err := backend.GetHash(ctx, "chat:p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", fields["id"])

	members, err := backend.ZRange(ctx, "user:chat:u1", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat:p1"}, members)
}

func TestPipeline_Cancel(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	p := backend.Pipeline()
	p.SetHashFields("chat:never", map[string]string{"id": "never"})
	p.Cancel()

	fields, err := backend.GetHash(ctx, "chat:never")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestPipeline_QueueTimeReads(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.ZAdd(ctx, "idx", 100, "m"))

	// The re-score resolves the old position against pre-batch state, so
	// after flush only the new position remains.
	p := backend.Pipeline()
	p.ZAdd("idx", 500, "m")
	p.ZRem("idx", "absent")
	require.NoError(t, p.Exec())

	members, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, members)
}

func TestPipeline_DuplicateZAddKeepsOneEntry(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	// Re-scoring a member queued earlier in the same batch must not leave
	// the earlier score entry behind.
	p := backend.Pipeline()
	p.ZAdd("idx", 100, "m")
	p.ZAdd("idx", 200, "m")
	require.NoError(t, p.Exec())

	members, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, members)
}

func TestPipeline_ZAddThenZRemSameBatch(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	p := backend.Pipeline()
	p.ZAdd("idx", 100, "m")
	p.ZRem("idx", "m")
	require.NoError(t, p.Exec())

	members, err := backend.ZRange(ctx, "idx", 0, -1, false)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestPipeline_ClosedBackend(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	p := backend.Pipeline()
	p.SetHashFields("chat:x", map[string]string{"id": "x"})
	assert.Error(t, p.Exec())
	p.Cancel()
}

func TestPipeline_DeleteKey(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	require.NoError(t, backend.SetHashFields(ctx, "doc:x", map[string]string{"id": "x"}))
	require.NoError(t, backend.SetHashFields(ctx, "doc:y", map[string]string{"id": "y"}))

	p := backend.Pipeline()
	p.DeleteKey("doc:x")
	require.NoError(t, p.Exec())

	gone, err := backend.GetHash(ctx, "doc:x")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := backend.GetHash(ctx, "doc:y")
	require.NoError(t, err)
	assert.Equal(t, "y", kept["id"])
}
