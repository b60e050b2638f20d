// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/stackedmap"
)

type (
	recordSlot struct {
		kind Kind
		key  holdfast.Address
	}
	balanceSlot holdfast.Address
)

// Transaction stages record reads and writes against the ledger. All writes
// stay in an overlay until Transact commits them; a failed transaction leaves
// no trace.
type Transaction struct {
	l       *Ledger
	sm      *stackedmap.StackedMap
	signers map[holdfast.Address]struct{}
	reads   map[recordSlot]uint64 // record versions observed from the store
}

func newTransaction(l *Ledger, signers []holdfast.Address) *Transaction {
	txn := &Transaction{
		l:       l,
		signers: make(map[holdfast.Address]struct{}, len(signers)),
		reads:   make(map[recordSlot]uint64),
	}
	for _, s := range signers {
		txn.signers[s] = struct{}{}
	}
	txn.sm = stackedmap.New(txn.srcGetter)
	txn.sm.Push()
	return txn
}

// srcGetter feeds the overlay from the underlying store, recording versions
// of records read for commit-time conflict detection.
func (t *Transaction) srcGetter(key any) (any, bool, error) {
	switch slot := key.(type) {
	case recordSlot:
		env, err := t.l.loadEnvelope(slot.kind, slot.key)
		if err != nil {
			return nil, false, err
		}
		if _, ok := t.reads[slot]; !ok {
			var ver uint64
			if env != nil {
				ver = env.Version
			}
			t.reads[slot] = ver
		}
		return env, true, nil
	case balanceSlot:
		bal, err := t.l.loadBalance(holdfast.Address(slot))
		if err != nil {
			return nil, false, err
		}
		return bal, true, nil
	}
	panic(errors.Errorf("unexpected slot type %+v", key))
}

// Signed reports whether the transaction carries a signature of addr.
// Caller authenticity itself is established by the signature-verification
// layer before the transaction is assembled.
func (t *Transaction) Signed(addr holdfast.Address) bool {
	_, ok := t.signers[addr]
	return ok
}

// Authorize derives an identity for the given program and seeds and adds it
// to the transaction's signer set. Since derived identities are namespaced,
// no user-controlled identity can ever be authorized this way.
func (t *Transaction) Authorize(program holdfast.Address, seeds ...[]byte) holdfast.Address {
	id := holdfast.DeriveAddress(program, seeds...)
	t.signers[id] = struct{}{}
	return id
}

func (t *Transaction) getEnv(kind Kind, key holdfast.Address) (*envelope, error) {
	v, _, err := t.sm.Get(recordSlot{kind, key})
	if err != nil {
		return nil, err
	}
	return v.(*envelope), nil
}

// Has reports whether a record exists.
func (t *Transaction) Has(kind Kind, key holdfast.Address) (bool, error) {
	env, err := t.getEnv(kind, key)
	if err != nil {
		return false, err
	}
	return env != nil, nil
}

// Read decodes the record of the given kind and key into rec.
func (t *Transaction) Read(kind Kind, key holdfast.Address, rec StorageDecoder) error {
	env, err := t.getEnv(kind, key)
	if err != nil {
		return err
	}
	if env == nil {
		return errors.Wrapf(ErrNotFound, "%s %s", kind, key)
	}
	return rec.Decode(env.Payload)
}

// Create stores a new record. It fails with ErrExists if the key is taken.
// The storage deposit is charged to payer, who must have signed the
// transaction; a zero payer skips the deposit (system records).
func (t *Transaction) Create(kind Kind, key holdfast.Address, rec StorageEncoder, payer holdfast.Address) error {
	env, err := t.getEnv(kind, key)
	if err != nil {
		return err
	}
	if env != nil {
		return errors.Wrapf(ErrExists, "%s %s", kind, key)
	}

	payload, err := rec.Encode()
	if err != nil {
		return errors.Wrapf(err, "encode record %s %s", kind, key)
	}

	var deposit uint64
	if !payer.IsZero() {
		if !t.Signed(payer) {
			return errors.Wrapf(ErrUnauthorized, "payer %s", payer)
		}
		deposit = storageCost(len(payload))
		if err := t.subBalance(payer, new(big.Int).SetUint64(deposit)); err != nil {
			return err
		}
	}

	t.sm.Put(recordSlot{kind, key}, &envelope{
		Version: t.reads[recordSlot{kind, key}] + 1,
		Deposit: deposit,
		Payload: payload,
	})
	return nil
}

// Update overwrites the payload of an existing record.
func (t *Transaction) Update(kind Kind, key holdfast.Address, rec StorageEncoder) error {
	env, err := t.getEnv(kind, key)
	if err != nil {
		return err
	}
	if env == nil {
		return errors.Wrapf(ErrNotFound, "%s %s", kind, key)
	}
	payload, err := rec.Encode()
	if err != nil {
		return errors.Wrapf(err, "encode record %s %s", kind, key)
	}
	t.sm.Put(recordSlot{kind, key}, &envelope{
		Version: env.Version + 1,
		Deposit: env.Deposit,
		Payload: payload,
	})
	return nil
}

// Mutate performs an atomic read-modify-write: the record is decoded into
// rec, fn mutates it, and the result is written back.
func (t *Transaction) Mutate(kind Kind, key holdfast.Address, rec Record, fn func() error) error {
	if err := t.Read(kind, key, rec); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return t.Update(kind, key, rec)
}

// Destroy removes a record and refunds its storage deposit to refundTo.
func (t *Transaction) Destroy(kind Kind, key holdfast.Address, refundTo holdfast.Address) error {
	env, err := t.getEnv(kind, key)
	if err != nil {
		return err
	}
	if env == nil {
		return errors.Wrapf(ErrNotFound, "%s %s", kind, key)
	}
	if env.Deposit > 0 {
		if err := t.addBalance(refundTo, new(big.Int).SetUint64(env.Deposit)); err != nil {
			return err
		}
	}
	t.sm.Put(recordSlot{kind, key}, (*envelope)(nil))
	return nil
}

// Balance returns the native balance of addr as staged in this transaction.
func (t *Transaction) Balance(addr holdfast.Address) (*big.Int, error) {
	v, _, err := t.sm.Get(balanceSlot(addr))
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

func (t *Transaction) addBalance(addr holdfast.Address, amount *big.Int) error {
	bal, err := t.Balance(addr)
	if err != nil {
		return err
	}
	t.sm.Put(balanceSlot(addr), bal.Add(bal, amount))
	return nil
}

func (t *Transaction) subBalance(addr holdfast.Address, amount *big.Int) error {
	bal, err := t.Balance(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "%s", addr)
	}
	t.sm.Put(balanceSlot(addr), bal.Sub(bal, amount))
	return nil
}
