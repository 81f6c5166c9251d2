package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/plexity/chatstore/storage"
)

// Backend wraps a BadgerDB instance and exposes the key-value primitives the
// repositories are written against: string-field hashes, score-ordered sets,
// and write batches. All field values are persisted as raw strings; typed
// repair happens in the storage codec, never here.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
//
// Badger does not guarantee an error (rather than a panic) for iterators
// opened on a closed DB, so the closed state is checked up front. Callers on
// fail-open paths rely on getting ErrStorageClosed back here.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetHash retrieves all fields of the hash stored at key.
// Returns a nil map if no fields exist; an empty hash and an absent hash are
// the same thing.
func (b *Backend) GetHash(ctx context.Context, key string) (map[string]string, error) {
	var fields map[string]string
	err := b.WithTx(func(tx *badger.Txn) error {
		var readErr error
		fields, readErr = readHash(tx, key)
		return readErr
	}, false)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// GetHashes retrieves several hashes within one read transaction. The result
// is positionally aligned with keys; absent hashes yield nil entries.
func (b *Backend) GetHashes(ctx context.Context, keys []string) ([]map[string]string, error) {
	results := make([]map[string]string, len(keys))
	err := b.WithTx(func(tx *badger.Txn) error {
		for i, key := range keys {
			fields, readErr := readHash(tx, key)
			if readErr != nil {
				return readErr
			}
			results[i] = fields
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SetHashFields writes the given fields of the hash stored at key.
// Existing fields not named in the map are left in place.
func (b *Backend) SetHashFields(ctx context.Context, key string, fields map[string]string) error {
	return b.WithTx(func(tx *badger.Txn) error {
		for field, value := range fields {
			if err := tx.Set(makeHashFieldKey(key, field), []byte(value)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteKey removes the hash stored at key along with any sorted-set data
// stored under the same key name.
func (b *Backend) DeleteKey(ctx context.Context, key string) error {
	return b.WithTx(func(tx *badger.Txn) error {
		doomed, err := collectKeyRecords(tx, key)
		if err != nil {
			return err
		}
		for _, k := range doomed {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ZAdd inserts member into the sorted set at indexKey with the given score.
// Re-adding an existing member replaces its score, so a member occupies
// exactly one position at all times.
func (b *Backend) ZAdd(ctx context.Context, indexKey string, score int64, member string) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := zaddTx(tx, indexKey, score, member); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ZRem removes member from the sorted set at indexKey. Removing an absent
// member is a no-op.
func (b *Backend) ZRem(ctx context.Context, indexKey, member string) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := zremTx(tx, indexKey, member); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ZRange returns members of the sorted set at indexKey between positions
// start and stop inclusive, score-ascending, or score-descending when rev is
// set. Negative positions count from the end, so (0, -1) is the full range.
func (b *Backend) ZRange(ctx context.Context, indexKey string, start, stop int, rev bool) ([]string, error) {
	var members []string
	err := b.WithTx(func(tx *badger.Txn) error {
		prefix := makeZSetPrefix(indexKey)

		opts := badger.DefaultIteratorOptions
		opts.Reverse = rev
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seek := prefix
		if rev {
			// Reverse iteration starts past the largest key under the prefix.
			seek = append(slices.Clone(prefix), 0xff)
		}

		for iter.Seek(seek); iter.ValidForPrefix(prefix); iter.Next() {
			value, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			members = append(members, string(value))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return rangeSlice(members, start, stop), nil
}

// readHash scans the field keys of one hash within a transaction.
func readHash(tx *badger.Txn, key string) (map[string]string, error) {
	prefix := makeHashPrefix(key)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var fields map[string]string
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		field := string(item.Key()[len(prefix):])
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[field] = string(value)
	}
	return fields, nil
}

// collectKeyRecords gathers every badger key holding data for the logical
// key: hash fields plus sorted-set entries and locators.
func collectKeyRecords(tx *badger.Txn, key string) ([][]byte, error) {
	prefixes := [][]byte{
		makeHashPrefix(key),
		makeZSetPrefix(key),
		[]byte(zsetMemberPrefix + ":" + key + ":"),
	}

	var doomed [][]byte
	for _, prefix := range prefixes {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			doomed = append(doomed, iter.Item().KeyCopy(nil))
		}
		iter.Close()
	}
	return doomed, nil
}

func zaddTx(tx *badger.Txn, indexKey string, score int64, member string) error {
	memberKey := makeZSetMemberKey(indexKey, member)

	item, err := tx.Get(memberKey)
	switch {
	case err == nil:
		old, valErr := item.ValueCopy(nil)
		if valErr != nil {
			return valErr
		}
		if err := tx.Delete(makeZSetScoreKey(indexKey, decodeScore(old), member)); err != nil {
			return err
		}
	case err != badger.ErrKeyNotFound:
		return err
	}

	if err := tx.Set(makeZSetScoreKey(indexKey, score, member), []byte(member)); err != nil {
		return err
	}
	return tx.Set(memberKey, encodeScore(score))
}

func zremTx(tx *badger.Txn, indexKey, member string) error {
	memberKey := makeZSetMemberKey(indexKey, member)

	item, err := tx.Get(memberKey)
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	old, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if err := tx.Delete(makeZSetScoreKey(indexKey, decodeScore(old), member)); err != nil {
		return err
	}
	return tx.Delete(memberKey)
}

// rangeSlice applies start/stop position semantics where negative positions
// count back from the end and stop is inclusive.
func rangeSlice(members []string, start, stop int) []string {
	n := len(members)
	if n == 0 {
		return nil
	}
	if start < 0 {
		start = n + start
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil
	}
	return members[start : stop+1]
}
