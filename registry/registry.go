// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry implements the metadata registry: per-asset collection
// membership records. Consumers only ever need the (collection, verified)
// answer for an asset.
package registry

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
)

// KindMembership is the record kind of collection membership entries.
const KindMembership ledger.Kind = "registry.membership"

// ErrUnauthorized is returned when the membership write lacks the collection's
// signature.
var ErrUnauthorized = errors.New("membership write not authorized")

var _ ledger.Record = (*Membership)(nil)

// Membership records the collection an asset belongs to, and whether the
// collection itself attested it.
type Membership struct {
	Collection holdfast.Address
	Verified   bool
}

// Encode implements ledger.StorageEncoder.
func (m *Membership) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

// Decode implements ledger.StorageDecoder.
func (m *Membership) Decode(data []byte) error {
	return rlp.DecodeBytes(data, m)
}

// Registry provides collection membership lookups.
type Registry struct {
	program holdfast.Address
}

// New creates a registry bound to the given program identity.
func New(program holdfast.Address) *Registry {
	return &Registry{program: program}
}

// SetMembership writes the membership record of asset. Marking an asset
// verified requires the collection's signature; unverified claims may be
// written by anyone paying for the record.
func (r *Registry) SetMembership(txn *ledger.Transaction, asset, collection holdfast.Address, verified bool, payer holdfast.Address) error {
	if verified && !txn.Signed(collection) {
		return errors.Wrapf(ErrUnauthorized, "collection %s", collection)
	}

	m := &Membership{Collection: collection, Verified: verified}
	key := r.membershipKey(asset)
	has, err := txn.Has(KindMembership, key)
	if err != nil {
		return err
	}
	if has {
		return txn.Update(KindMembership, key, m)
	}
	return txn.Create(KindMembership, key, m, payer)
}

// GetMembership returns the collection membership of asset.
func (r *Registry) GetMembership(txn *ledger.Transaction, asset holdfast.Address) (*Membership, error) {
	var m Membership
	if err := txn.Read(KindMembership, r.membershipKey(asset), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Registry) membershipKey(asset holdfast.Address) holdfast.Address {
	return holdfast.DeriveAddress(r.program, []byte("membership"), asset.Bytes())
}
