// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements a typed-record store with single-transaction
// semantics. Records are grouped by kind, keyed by identity, RLP-encoded and
// persisted in a kv store. Every mutation happens inside a transaction which
// is applied all-or-nothing; a transaction whose reads turn stale before
// commit is rejected with ErrConflict and may be retried by the caller.
package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/kv"
)

// Kind names a record type. It must not contain '/'.
type Kind string

const balancesBucket = kv.Bucket("b/")

func recordBucket(kind Kind) kv.Bucket {
	return kv.Bucket("r/" + string(kind) + "/")
}

// Options options for creating a ledger instance.
type Options struct {
	// CacheSize caps the decoded-record cache. Defaults to 2048 entries.
	CacheSize int
}

// Ledger is the typed-record store.
type Ledger struct {
	store kv.Store
	cache *lru.Cache // record slot -> *envelope

	// serializes commits and keeps the cache coherent with the store
	mu sync.Mutex
}

// New creates a ledger over the given kv store.
func New(store kv.Store, opts Options) (*Ledger, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 2048
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "create record cache")
	}
	return &Ledger{store: store, cache: cache}, nil
}

// Transact runs fn inside a new transaction carrying the given signer set.
// If fn returns an error the transaction is discarded and no effect is
// observable; otherwise the staged writes are committed atomically.
func (l *Ledger) Transact(signers []holdfast.Address, fn func(*Transaction) error) error {
	txn := newTransaction(l, signers)
	if err := fn(txn); err != nil {
		return err
	}
	return l.commit(txn)
}

// Fund credits amount to the native balance of addr, bypassing transaction
// authorization. It exists for genesis/bootstrap allocation.
func (l *Ledger) Fund(addr holdfast.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, err := l.loadBalance(addr)
	if err != nil {
		return err
	}
	data, err := rlp.EncodeToBytes(new(big.Int).Add(bal, amount))
	if err != nil {
		return errors.Wrap(err, "encode balance")
	}
	return balancesBucket.NewPutter(l.store).Put(addr.Bytes(), data)
}

func cacheKey(kind Kind, key holdfast.Address) string {
	return string(kind) + "/" + string(key.Bytes())
}

// loadEnvelope reads a record envelope from the store, via the decoded cache.
// A nil envelope means the record does not exist.
func (l *Ledger) loadEnvelope(kind Kind, key holdfast.Address) (*envelope, error) {
	ck := cacheKey(kind, key)
	if cached, ok := l.cache.Get(ck); ok {
		return cached.(*envelope), nil
	}

	getter := recordBucket(kind).NewGetter(l.store)
	data, err := getter.Get(key.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			l.cache.Add(ck, (*envelope)(nil))
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load record %s %s", kind, key)
	}

	var env envelope
	if err := rlp.DecodeBytes(data, &env); err != nil {
		return nil, errors.Wrapf(err, "decode record %s %s", kind, key)
	}
	l.cache.Add(ck, &env)
	return &env, nil
}

func (l *Ledger) loadBalance(addr holdfast.Address) (*big.Int, error) {
	getter := balancesBucket.NewGetter(l.store)
	data, err := getter.Get(addr.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, errors.Wrapf(err, "load balance %s", addr)
	}
	bal := new(big.Int)
	if err := rlp.DecodeBytes(data, bal); err != nil {
		return nil, errors.Wrapf(err, "decode balance %s", addr)
	}
	return bal, nil
}

// commit verifies the transaction's read set and applies its journal to the
// store in one batch.
func (l *Ledger) commit(txn *Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for slot, ver := range txn.reads {
		cur, err := l.loadEnvelope(slot.kind, slot.key)
		if err != nil {
			return err
		}
		var curVer uint64
		if cur != nil {
			curVer = cur.Version
		}
		if curVer != ver {
			return errors.Wrapf(ErrConflict, "record %s %s", slot.kind, slot.key)
		}
	}

	batch := l.store.NewBatch()
	var jerr error
	txn.sm.Journal(func(k, v any) bool {
		switch slot := k.(type) {
		case recordSlot:
			putter := recordBucket(slot.kind).NewPutter(batch)
			env := v.(*envelope)
			if env == nil {
				jerr = putter.Delete(slot.key.Bytes())
			} else {
				var data []byte
				if data, jerr = rlp.EncodeToBytes(env); jerr == nil {
					jerr = putter.Put(slot.key.Bytes(), data)
				}
			}
		case balanceSlot:
			var data []byte
			if data, jerr = rlp.EncodeToBytes(v.(*big.Int)); jerr == nil {
				jerr = balancesBucket.NewPutter(batch).Put(holdfast.Address(slot).Bytes(), data)
			}
		}
		return jerr == nil
	})
	if jerr != nil {
		return errors.Wrap(jerr, "stage journal")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	// refresh the cache with committed record values
	txn.sm.Journal(func(k, v any) bool {
		if slot, ok := k.(recordSlot); ok {
			l.cache.Add(cacheKey(slot.kind, slot.key), v.(*envelope))
		}
		return true
	})
	return nil
}
