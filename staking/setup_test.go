// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
	"github.com/holdfast-network/holdfast/lvldb"
	"github.com/holdfast-network/holdfast/registry"
	"github.com/holdfast-network/holdfast/token"
)

type testEnv struct {
	t *testing.T

	led    *ledger.Ledger
	book   *token.Book
	reg    *registry.Registry
	staker *Staker

	creator    holdfast.Address
	collection holdfast.Address
}

func newTestEnv(t *testing.T, strategy Strategy) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	led, err := ledger.New(db, ledger.Options{})
	require.NoError(t, err)

	book := token.New(holdfast.BytesToAddress([]byte("token-program")))
	reg := registry.New(holdfast.BytesToAddress([]byte("registry-program")))
	staker := New(holdfast.BytesToAddress([]byte("staking-program")), led, book, reg, strategy)

	env := &testEnv{
		t:          t,
		led:        led,
		book:       book,
		reg:        reg,
		staker:     staker,
		creator:    holdfast.BytesToAddress([]byte("creator")),
		collection: holdfast.BytesToAddress([]byte("collection")),
	}
	require.NoError(t, led.Fund(env.creator, big.NewInt(1e18)))
	return env
}

// newUser creates a funded user identity.
func (e *testEnv) newUser(name string) holdfast.Address {
	user := holdfast.BytesToAddress([]byte(name))
	require.NoError(e.t, e.led.Fund(user, big.NewInt(1e18)))
	return user
}

// newAsset mints a unique asset to owner and registers it as a verified
// member of the env's collection.
func (e *testEnv) newAsset(name string, owner holdfast.Address) holdfast.Address {
	asset := holdfast.BytesToAddress([]byte(name))
	err := e.led.Transact([]holdfast.Address{e.creator, e.collection}, func(txn *ledger.Transaction) error {
		if err := e.book.CreateMint(txn, asset, e.creator, 0, e.creator); err != nil {
			return err
		}
		if err := e.book.MintTo(txn, asset, owner, 1); err != nil {
			return err
		}
		return e.reg.SetMembership(txn, asset, e.collection, true, e.creator)
	})
	require.NoError(e.t, err)
	return asset
}

// newForeignAsset mints a unique asset whose verified membership points at a
// different collection.
func (e *testEnv) newForeignAsset(name string, owner holdfast.Address) (asset, otherCollection holdfast.Address) {
	asset = holdfast.BytesToAddress([]byte(name))
	otherCollection = holdfast.BytesToAddress([]byte(name + "-collection"))
	err := e.led.Transact([]holdfast.Address{e.creator, otherCollection}, func(txn *ledger.Transaction) error {
		if err := e.book.CreateMint(txn, asset, e.creator, 0, e.creator); err != nil {
			return err
		}
		if err := e.book.MintTo(txn, asset, owner, 1); err != nil {
			return err
		}
		return e.reg.SetMembership(txn, asset, otherCollection, true, e.creator)
	})
	require.NoError(e.t, err)
	return asset, otherCollection
}

// newUnverifiedAsset mints a unique asset whose collection membership was
// never verified by the collection identity.
func (e *testEnv) newUnverifiedAsset(name string, owner holdfast.Address) holdfast.Address {
	asset := holdfast.BytesToAddress([]byte(name))
	err := e.led.Transact([]holdfast.Address{e.creator}, func(txn *ledger.Transaction) error {
		if err := e.book.CreateMint(txn, asset, e.creator, 0, e.creator); err != nil {
			return err
		}
		if err := e.book.MintTo(txn, asset, owner, 1); err != nil {
			return err
		}
		return e.reg.SetMembership(txn, asset, e.collection, false, e.creator)
	})
	require.NoError(e.t, err)
	return asset
}

// nativeBalance returns the user's native ledger balance.
func (e *testEnv) nativeBalance(user holdfast.Address) *big.Int {
	var bal *big.Int
	err := e.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		bal, err = txn.Balance(user)
		return
	})
	require.NoError(e.t, err)
	return bal
}

// rewardBalance returns the user's reward token balance.
func (e *testEnv) rewardBalance(user holdfast.Address) uint64 {
	var bal uint64
	err := e.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		bal, err = e.book.BalanceOf(txn, e.staker.RewardUnit(), user)
		return
	})
	require.NoError(e.t, err)
	return bal
}

// assetBalance returns the user's balance of the given asset unit.
func (e *testEnv) assetBalance(asset, holder holdfast.Address) uint64 {
	var bal uint64
	err := e.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		bal, err = e.book.BalanceOf(txn, asset, holder)
		return
	})
	require.NoError(e.t, err)
	return bal
}

// holding returns the full holding record of holder for the given unit.
func (e *testEnv) holding(unit, holder holdfast.Address) *token.Holding {
	var h *token.Holding
	err := e.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		h, err = e.book.HoldingOf(txn, unit, holder)
		return
	})
	require.NoError(e.t, err)
	return h
}
