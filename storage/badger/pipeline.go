package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/plexity/chatstore/storage"
)

// Pipeline queues mutations against a badger WriteBatch and applies them on
// Exec. Operations apply in submission order but carry no cross-key
// atomicity: a failure mid-flush can leave earlier operations written and
// later ones not. Callers that pair a record write with an index write rely
// on the listing paths' miss-filtering to absorb the gap.
//
// Operations that need to consult existing state (re-scoring a sorted-set
// member, locating an entry to remove, enumerating a hash's fields) resolve
// their reads at queue time against the pre-batch state of the store. The
// one exception is a member already scored earlier in the same batch: the
// batch tracks those itself, so queuing two ZAdds for one member leaves a
// single entry.
type Pipeline struct {
	backend *Backend
	wb      *badger.WriteBatch
	queued  map[string]int64
	err     error
}

func queuedScoreKey(indexKey, member string) string {
	return indexKey + "\x00" + member
}

// Pipeline returns a new batch handle. A handle obtained from a closed
// backend accepts operations but fails on Exec.
func (b *Backend) Pipeline() *Pipeline {
	if b.db.IsClosed() {
		return &Pipeline{backend: b, err: storage.ErrStorageClosed}
	}
	return &Pipeline{
		backend: b,
		wb:      b.db.NewWriteBatch(),
		queued:  make(map[string]int64),
	}
}

// SetHashFields queues writes for the given fields of the hash at key.
func (p *Pipeline) SetHashFields(key string, fields map[string]string) {
	if p.err != nil {
		return
	}
	for field, value := range fields {
		if err := p.wb.Set(makeHashFieldKey(key, field), []byte(value)); err != nil {
			p.err = err
			return
		}
	}
}

// DeleteKey queues deletion of the hash at key and any sorted-set data under
// the same key name. The keys to delete are enumerated at queue time.
func (p *Pipeline) DeleteKey(key string) {
	if p.err != nil {
		return
	}
	var doomed [][]byte
	p.err = p.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doomed, err = collectKeyRecords(tx, key)
		return err
	}, false)
	if p.err != nil {
		return
	}
	for _, k := range doomed {
		if err := p.wb.Delete(k); err != nil {
			p.err = err
			return
		}
	}
}

// ZAdd queues insertion of member with the given score, replacing the
// member's current position if it already has one, whether from the store or
// from earlier in this batch.
func (p *Pipeline) ZAdd(indexKey string, score int64, member string) {
	if p.err != nil {
		return
	}

	memberKey := makeZSetMemberKey(indexKey, member)

	oldScore, present := p.queued[queuedScoreKey(indexKey, member)]
	if !present {
		p.err = p.backend.WithTx(func(tx *badger.Txn) error {
			item, err := tx.Get(memberKey)
			if err == badger.ErrKeyNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			oldScore = decodeScore(value)
			present = true
			return nil
		}, false)
		if p.err != nil {
			return
		}
	}

	if present && oldScore != score {
		if err := p.wb.Delete(makeZSetScoreKey(indexKey, oldScore, member)); err != nil {
			p.err = err
			return
		}
	}
	if err := p.wb.Set(makeZSetScoreKey(indexKey, score, member), []byte(member)); err != nil {
		p.err = err
		return
	}
	if p.err = p.wb.Set(memberKey, encodeScore(score)); p.err == nil {
		p.queued[queuedScoreKey(indexKey, member)] = score
	}
}

// ZRem queues removal of member from the sorted set at indexKey. Queuing a
// removal for an absent member is a no-op.
func (p *Pipeline) ZRem(indexKey, member string) {
	if p.err != nil {
		return
	}

	memberKey := makeZSetMemberKey(indexKey, member)

	if score, ok := p.queued[queuedScoreKey(indexKey, member)]; ok {
		delete(p.queued, queuedScoreKey(indexKey, member))
		if err := p.wb.Delete(makeZSetScoreKey(indexKey, score, member)); err != nil {
			p.err = err
			return
		}
		p.err = p.wb.Delete(memberKey)
		return
	}

	var score int64
	var present bool
	p.err = p.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(memberKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		score = decodeScore(value)
		present = true
		return nil
	}, false)
	if p.err != nil || !present {
		return
	}

	if err := p.wb.Delete(makeZSetScoreKey(indexKey, score, member)); err != nil {
		p.err = err
		return
	}
	p.err = p.wb.Delete(memberKey)
}

// Exec applies the queued operations. If any queueing step failed, nothing
// further is written and the first error is returned.
func (p *Pipeline) Exec() error {
	if p.err != nil {
		p.Cancel()
		return p.err
	}
	if err := p.wb.Flush(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrBatchFailed, err)
	}
	return nil
}

// Cancel discards the batch without applying pending operations. Calling
// Cancel after a successful Exec is harmless.
func (p *Pipeline) Cancel() {
	if p.wb != nil {
		p.wb.Cancel()
	}
}
