// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
	"github.com/holdfast-network/holdfast/token"
)

func TestInitConfig(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	admin := env.newUser("admin")

	require.NoError(t, env.staker.InitConfig(admin, 10, 2, 100))

	cfg, err := env.staker.Config()
	require.NoError(t, err)
	assert.Equal(t, uint8(10), cfg.PointsPerStake)
	assert.Equal(t, uint8(2), cfg.MaxStake)
	assert.Equal(t, uint32(100), cfg.FreezePeriod)

	err = env.led.Transact(nil, func(txn *ledger.Transaction) error {
		ok, err := txn.Has(KindConfig, env.staker.store.configKey())
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.staker.InitConfig(admin, 5, 1, 0), ledger.ErrExists)
}

func TestInitParticipant(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))

	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Zero(t, p.AmountStaked)
	assert.Zero(t, p.Points)

	assert.ErrorIs(t, env.staker.InitParticipant(user), ledger.ErrExists)
}

func TestStakeRequiresSetup(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	user := env.newUser("alice")
	asset := env.newAsset("asset-1", user)

	// no config yet
	assert.ErrorIs(t, env.staker.Stake(user, asset, env.collection, 0), ledger.ErrNotFound)

	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	// no participant record yet
	assert.ErrorIs(t, env.staker.Stake(user, asset, env.collection, 0), ledger.ErrNotFound)
}

func TestStake(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))
	asset := env.newAsset("asset-1", user)

	require.NoError(t, env.staker.Stake(user, asset, env.collection, 42))

	c, err := env.staker.CustodyOf(asset)
	require.NoError(t, err)
	assert.Equal(t, user, c.Owner)
	assert.Equal(t, asset, c.Asset)
	assert.Equal(t, uint64(42), c.StakedAt)

	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), p.AmountStaked)
	assert.Zero(t, p.Points)

	// staking the same asset twice must fail and leave state untouched
	assert.ErrorIs(t, env.staker.Stake(user, asset, env.collection, 99), ledger.ErrExists)

	c, err = env.staker.CustodyOf(asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.StakedAt)
	p, err = env.staker.Participant(user)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), p.AmountStaked)
}

func TestStakeCollectionMismatch(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))

	// verified, but for a different collection
	foreign, _ := env.newForeignAsset("asset-foreign", user)
	assert.ErrorIs(t, env.staker.Stake(user, foreign, env.collection, 0), ErrCollectionMismatch)
}

func TestStakeUnverified(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))

	asset := env.newUnverifiedAsset("asset-unverified", user)
	assert.ErrorIs(t, env.staker.Stake(user, asset, env.collection, 0), ErrCollectionMismatch)

	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Zero(t, p.AmountStaked)
}

func TestStakeLimitScenario(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))

	a := env.newAsset("asset-a", user)
	b := env.newAsset("asset-b", user)
	c := env.newAsset("asset-c", user)

	require.NoError(t, env.staker.Stake(user, a, env.collection, 0))
	require.NoError(t, env.staker.Stake(user, b, env.collection, 50))
	assert.ErrorIs(t, env.staker.Stake(user, c, env.collection, 60), ErrStakeLimit)

	// the third asset never entered custody
	_, err := env.staker.CustodyOf(c)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, env.staker.Unstake(user, a, 101))

	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), p.AmountStaked)
	assert.Equal(t, uint32(10), p.Points)

	// with a slot freed, the third asset can be staked now
	require.NoError(t, env.staker.Stake(user, c, env.collection, 110))

	require.NoError(t, env.staker.Claim(user))
	assert.Equal(t, uint64(10), env.rewardBalance(user))

	p, err = env.staker.Participant(user)
	require.NoError(t, err)
	assert.Zero(t, p.Points)
}

func TestUnstakeFreezeBoundary(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 100))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))
	asset := env.newAsset("asset-1", user)

	require.NoError(t, env.staker.Stake(user, asset, env.collection, 1000))

	assert.ErrorIs(t, env.staker.Unstake(user, asset, 1099), ErrNotElapsed)

	// state must be untouched after the failed attempt
	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), p.AmountStaked)
	assert.Zero(t, p.Points)

	// the boundary is inclusive: exactly freeze_period later succeeds
	require.NoError(t, env.staker.Unstake(user, asset, 1100))
}

func TestUnstakeZeroFreeze(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 7, 1, 0))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))
	asset := env.newAsset("asset-1", user)

	before := env.nativeBalance(user)
	require.NoError(t, env.staker.Stake(user, asset, env.collection, 5))
	require.NoError(t, env.staker.Unstake(user, asset, 5))

	// the custody record's storage deposit came back with the asset
	assert.Zero(t, before.Cmp(env.nativeBalance(user)))

	p, err := env.staker.Participant(user)
	require.NoError(t, err)
	assert.Zero(t, p.AmountStaked)
	assert.Equal(t, uint32(7), p.Points)

	// custody is gone and the asset is back under the owner's sole control
	_, err = env.staker.CustodyOf(asset)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Equal(t, uint64(1), env.assetBalance(asset, user))
}

func TestUnstakeAuthorization(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 0))

	alice := env.newUser("alice")
	mallory := env.newUser("mallory")
	require.NoError(t, env.staker.InitParticipant(alice))
	require.NoError(t, env.staker.InitParticipant(mallory))
	asset := env.newAsset("asset-1", alice)

	require.NoError(t, env.staker.Stake(alice, asset, env.collection, 0))

	assert.ErrorIs(t, env.staker.Unstake(mallory, asset, 10), ErrUnauthorized)

	// unknown asset
	other := env.newAsset("asset-2", alice)
	assert.ErrorIs(t, env.staker.Unstake(alice, other, 10), ledger.ErrNotFound)
}

func TestClaim(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 0))

	user := env.newUser("alice")
	require.NoError(t, env.staker.InitParticipant(user))

	// nothing accrued yet
	assert.ErrorIs(t, env.staker.Claim(user), ErrNoRewards)

	asset := env.newAsset("asset-1", user)
	require.NoError(t, env.staker.Stake(user, asset, env.collection, 0))
	require.NoError(t, env.staker.Unstake(user, asset, 0))

	require.NoError(t, env.staker.Claim(user))
	assert.Equal(t, uint64(10), env.rewardBalance(user))

	// points were consumed, a second claim has nothing left
	assert.ErrorIs(t, env.staker.Claim(user), ErrNoRewards)
	assert.Equal(t, uint64(10), env.rewardBalance(user))
}

func TestVaultCustody(t *testing.T) {
	env := newTestEnv(t, VaultTransfer())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 0))

	user := env.newUser("alice")
	other := env.newUser("bob")
	require.NoError(t, env.staker.InitParticipant(user))
	asset := env.newAsset("asset-1", user)

	require.NoError(t, env.staker.Stake(user, asset, env.collection, 0))

	// the asset moved out of the owner's holding into the vault
	assert.Zero(t, env.assetBalance(asset, user))
	assert.Equal(t, uint64(1), env.assetBalance(asset, env.staker.store.configKey()))

	// the owner cannot move the staked asset
	err := env.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		return env.book.Transfer(txn, asset, user, other, 1)
	})
	assert.ErrorIs(t, err, token.ErrInsufficient)

	require.NoError(t, env.staker.Unstake(user, asset, 0))
	assert.Equal(t, uint64(1), env.assetBalance(asset, user))
	assert.Zero(t, env.assetBalance(asset, env.staker.store.configKey()))
}

func TestDelegateFreezeCustody(t *testing.T) {
	env := newTestEnv(t, DelegateFreeze())
	require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 0))

	user := env.newUser("alice")
	other := env.newUser("bob")
	require.NoError(t, env.staker.InitParticipant(user))
	asset := env.newAsset("asset-1", user)

	require.NoError(t, env.staker.Stake(user, asset, env.collection, 0))

	// the asset stays in the owner's holding, frozen and delegated
	assert.Equal(t, uint64(1), env.assetBalance(asset, user))
	h := env.holding(asset, user)
	assert.True(t, h.Frozen)
	assert.False(t, h.Delegate.IsZero())

	err := env.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		return env.book.Transfer(txn, asset, user, other, 1)
	})
	assert.ErrorIs(t, err, token.ErrFrozen)

	require.NoError(t, env.staker.Unstake(user, asset, 0))

	h = env.holding(asset, user)
	assert.False(t, h.Frozen)
	assert.True(t, h.Delegate.IsZero())

	// control is fully restored
	err = env.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		return env.book.Transfer(txn, asset, user, other, 1)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), env.assetBalance(asset, other))
}

func TestStakeWithoutPossession(t *testing.T) {
	for _, strategy := range []Strategy{VaultTransfer(), DelegateFreeze()} {
		t.Run(strategy.Name(), func(t *testing.T) {
			env := newTestEnv(t, strategy)
			require.NoError(t, env.staker.InitConfig(env.newUser("admin"), 10, 2, 0))

			owner := env.newUser("alice")
			mallory := env.newUser("mallory")
			require.NoError(t, env.staker.InitParticipant(mallory))
			asset := env.newAsset("asset-1", owner)

			assert.ErrorIs(t, env.staker.Stake(mallory, asset, env.collection, 0), token.ErrInsufficient)

			// the failed attempt left no custody behind
			_, err := env.staker.CustodyOf(asset)
			assert.ErrorIs(t, err, ledger.ErrNotFound)
		})
	}
}
