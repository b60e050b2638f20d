// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a ledger-backed token book: mints, holdings,
// transfers, delegation and freezing. A unique asset is simply a unit whose
// supply is one.
package token

import (
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
)

const (
	// KindMint is the record kind of token units.
	KindMint ledger.Kind = "token.mint"
	// KindHolding is the record kind of per-holder token accounts.
	KindHolding ledger.Kind = "token.holding"
)

var (
	// ErrNoMint is returned when the referenced token unit does not exist.
	ErrNoMint = errors.New("unknown token unit")

	// ErrUnauthorized is returned when the transaction lacks the signature
	// required for the token operation.
	ErrUnauthorized = errors.New("token operation not authorized")

	// ErrInsufficient is returned when a holding cannot cover the moved amount.
	ErrInsufficient = errors.New("insufficient token balance")

	// ErrFrozen is returned when a frozen holding is moved or delegated.
	ErrFrozen = errors.New("holding is frozen")

	// ErrSupplyOverflow is returned when minting would overflow the supply.
	ErrSupplyOverflow = errors.New("token supply overflow")
)

// Book implements token operations for a single token program identity.
type Book struct {
	program holdfast.Address
}

// New creates a token book bound to the given program identity.
func New(program holdfast.Address) *Book {
	return &Book{program: program}
}

// HoldingKey derives the deterministic key of the holding account of holder
// for the given unit.
func (b *Book) HoldingKey(unit, holder holdfast.Address) holdfast.Address {
	return holdfast.DeriveAddress(b.program, []byte("holding"), unit.Bytes(), holder.Bytes())
}

// CreateMint registers a new token unit. The given authority is both the
// minting and the freeze authority of the unit.
func (b *Book) CreateMint(txn *ledger.Transaction, unit, authority holdfast.Address, decimals uint8, payer holdfast.Address) error {
	mint := &Mint{Authority: authority, Decimals: decimals}
	if err := txn.Create(KindMint, unit, mint, payer); err != nil {
		return errors.Wrap(err, "create mint")
	}
	return nil
}

func (b *Book) getMint(txn *ledger.Transaction, unit holdfast.Address) (*Mint, error) {
	var mint Mint
	if err := txn.Read(KindMint, unit, &mint); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, errors.Wrapf(ErrNoMint, "%s", unit)
		}
		return nil, err
	}
	return &mint, nil
}

func (b *Book) getHolding(txn *ledger.Transaction, unit, holder holdfast.Address) (*Holding, error) {
	var h Holding
	err := txn.Read(KindHolding, b.HoldingKey(unit, holder), &h)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}
	return &h, nil
}

// putHolding creates or updates a holding record. Holdings are system
// records, no storage deposit is charged.
func (b *Book) putHolding(txn *ledger.Transaction, unit, holder holdfast.Address, h *Holding) error {
	key := b.HoldingKey(unit, holder)
	has, err := txn.Has(KindHolding, key)
	if err != nil {
		return err
	}
	if has {
		return txn.Update(KindHolding, key, h)
	}
	return txn.Create(KindHolding, key, h, holdfast.Address{})
}

// MintTo mints amount units to the holding of to, signed by the unit's
// minting authority.
func (b *Book) MintTo(txn *ledger.Transaction, unit, to holdfast.Address, amount uint64) error {
	mint, err := b.getMint(txn, unit)
	if err != nil {
		return err
	}
	if !txn.Signed(mint.Authority) {
		return errors.Wrapf(ErrUnauthorized, "mint %s requires authority %s", unit, mint.Authority)
	}
	if mint.Supply+amount < mint.Supply {
		return errors.Wrapf(ErrSupplyOverflow, "mint %s", unit)
	}
	mint.Supply += amount
	if err := txn.Update(KindMint, unit, mint); err != nil {
		return err
	}

	h, err := b.getHolding(txn, unit, to)
	if err != nil {
		return err
	}
	// supply bound makes holding overflow impossible
	h.Amount += amount
	return b.putHolding(txn, unit, to, h)
}

// Transfer moves amount units from the holding of from to the holding of to.
// It must be signed by the holder, or by the holding's delegate within the
// delegated allowance. Frozen holdings cannot be moved.
func (b *Book) Transfer(txn *ledger.Transaction, unit, from, to holdfast.Address, amount uint64) error {
	src, err := b.getHolding(txn, unit, from)
	if err != nil {
		return err
	}
	if src.Frozen {
		return errors.Wrapf(ErrFrozen, "holding %s of %s", unit, from)
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficient, "holding %s of %s", unit, from)
	}

	switch {
	case txn.Signed(from):
	case !src.Delegate.IsZero() && txn.Signed(src.Delegate):
		if src.Delegated < amount {
			return errors.Wrapf(ErrInsufficient, "delegated allowance of %s", from)
		}
		src.Delegated -= amount
	default:
		return errors.Wrapf(ErrUnauthorized, "transfer from %s", from)
	}

	src.Amount -= amount
	if err := b.putHolding(txn, unit, from, src); err != nil {
		return err
	}

	dst, err := b.getHolding(txn, unit, to)
	if err != nil {
		return err
	}
	dst.Amount += amount
	return b.putHolding(txn, unit, to, dst)
}

// Delegate grants delegate the right to move up to amount units out of the
// holding of holder. Signed by the holder.
func (b *Book) Delegate(txn *ledger.Transaction, unit, holder, delegate holdfast.Address, amount uint64) error {
	if !txn.Signed(holder) {
		return errors.Wrapf(ErrUnauthorized, "delegate of %s", holder)
	}
	h, err := b.getHolding(txn, unit, holder)
	if err != nil {
		return err
	}
	if h.Frozen {
		return errors.Wrapf(ErrFrozen, "holding %s of %s", unit, holder)
	}
	h.Delegate = delegate
	h.Delegated = amount
	return b.putHolding(txn, unit, holder, h)
}

// Revoke removes the delegation from the holding of holder. Signed by the
// holder.
func (b *Book) Revoke(txn *ledger.Transaction, unit, holder holdfast.Address) error {
	if !txn.Signed(holder) {
		return errors.Wrapf(ErrUnauthorized, "revoke of %s", holder)
	}
	h, err := b.getHolding(txn, unit, holder)
	if err != nil {
		return err
	}
	if h.Frozen {
		return errors.Wrapf(ErrFrozen, "holding %s of %s", unit, holder)
	}
	h.Delegate = holdfast.Address{}
	h.Delegated = 0
	return b.putHolding(txn, unit, holder, h)
}

// Freeze blocks the holding of holder. Signed by the unit's authority or by
// the holding's delegate.
func (b *Book) Freeze(txn *ledger.Transaction, unit, holder holdfast.Address) error {
	return b.setFrozen(txn, unit, holder, true)
}

// Unfreeze lifts the freeze on the holding of holder. Signed by the unit's
// authority or by the holding's delegate.
func (b *Book) Unfreeze(txn *ledger.Transaction, unit, holder holdfast.Address) error {
	return b.setFrozen(txn, unit, holder, false)
}

func (b *Book) setFrozen(txn *ledger.Transaction, unit, holder holdfast.Address, frozen bool) error {
	mint, err := b.getMint(txn, unit)
	if err != nil {
		return err
	}
	h, err := b.getHolding(txn, unit, holder)
	if err != nil {
		return err
	}
	authorized := txn.Signed(mint.Authority) ||
		(!h.Delegate.IsZero() && txn.Signed(h.Delegate))
	if !authorized {
		return errors.Wrapf(ErrUnauthorized, "freeze of %s", holder)
	}
	h.Frozen = frozen
	return b.putHolding(txn, unit, holder, h)
}

// BalanceOf returns the amount held by holder for the given unit.
func (b *Book) BalanceOf(txn *ledger.Transaction, unit, holder holdfast.Address) (uint64, error) {
	h, err := b.getHolding(txn, unit, holder)
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

// HoldingOf returns the full holding record of holder for the given unit.
// Missing holdings read as empty.
func (b *Book) HoldingOf(txn *ledger.Transaction, unit, holder holdfast.Address) (*Holding, error) {
	return b.getHolding(txn, unit, holder)
}
