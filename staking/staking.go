// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the custody and accounting state machine:
// participants deposit a unique asset into program custody, accrue reward
// points over the holding period, reclaim the asset once the freeze period
// elapsed, and redeem the points for reward tokens.
package staking

import (
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
	"github.com/holdfast-network/holdfast/log"
	"github.com/holdfast-network/holdfast/registry"
	"github.com/holdfast-network/holdfast/token"
)

var logger = log.WithContext("pkg", "staking")

// rewardDecimals is the decimal resolution of the reward token unit.
const rewardDecimals = 6

// Staker exposes the staking operations of one program instance. Every
// operation runs as a single ledger transaction: it either applies all of
// its effects or none.
type Staker struct {
	program holdfast.Address
	led     *ledger.Ledger
	tokens  *token.Book
	reg     *registry.Registry
	custody Strategy
	store   *storage
}

// New creates a staking program instance. The custody strategy is fixed for
// the lifetime of the instance; a nil strategy selects VaultTransfer.
func New(program holdfast.Address, led *ledger.Ledger, tokens *token.Book, reg *registry.Registry, custody Strategy) *Staker {
	if custody == nil {
		custody = VaultTransfer()
	}
	return &Staker{
		program: program,
		led:     led,
		tokens:  tokens,
		reg:     reg,
		custody: custody,
		store:   &storage{program: program},
	}
}

// RewardUnit returns the token unit rewards are minted in.
func (s *Staker) RewardUnit() holdfast.Address {
	return s.store.rewardsUnit()
}

// authorizeConfig signs the transaction as the config identity, the mint and
// custody-release authority.
func (s *Staker) authorizeConfig(txn *ledger.Transaction) holdfast.Address {
	return txn.Authorize(s.program, seedConfig)
}

// authorizeCustody signs the transaction as the custody record identity of
// the given asset.
func (s *Staker) authorizeCustody(txn *ledger.Transaction, asset holdfast.Address) holdfast.Address {
	return txn.Authorize(s.program, seedStake, asset.Bytes(), s.store.configKey().Bytes())
}

// InitConfig creates the singleton config record and establishes the reward
// mint with the config identity as its minting authority. A second call
// fails because the record already exists.
func (s *Staker) InitConfig(admin holdfast.Address, pointsPerStake, maxStake uint8, freezePeriod uint32) (err error) {
	defer func() { meterOp("init_config", err) }()

	err = s.led.Transact([]holdfast.Address{admin}, func(txn *ledger.Transaction) error {
		cfg := &Config{
			PointsPerStake: pointsPerStake,
			MaxStake:       maxStake,
			FreezePeriod:   freezePeriod,
		}
		if err := s.store.createConfig(txn, cfg, admin); err != nil {
			return err
		}
		return s.tokens.CreateMint(txn, s.store.rewardsUnit(), s.store.configKey(), rewardDecimals, admin)
	})
	if err == nil {
		logger.Info().
			Str("config", s.store.configKey().String()).
			Str("strategy", s.custody.Name()).
			Msg("config initialized")
	}
	return err
}

// InitParticipant creates an empty participant account for the caller.
// Calling twice fails rather than resetting state.
func (s *Staker) InitParticipant(user holdfast.Address) (err error) {
	defer func() { meterOp("init_participant", err) }()

	return s.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		return s.store.createParticipant(txn, user)
	})
}

// Stake places the asset under program custody and creates its custody
// record. now is the externally supplied wall-clock reading in unix seconds.
func (s *Staker) Stake(user, asset, collection holdfast.Address, now uint64) (err error) {
	defer func() { meterOp("stake", err) }()

	err = s.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		cfg, err := s.store.getConfig(txn)
		if err != nil {
			return err
		}

		m, err := s.reg.GetMembership(txn, asset)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return errors.Wrapf(ErrCollectionMismatch, "asset %s has no membership record", asset)
			}
			return err
		}
		if m.Collection != collection || !m.Verified {
			return errors.Wrapf(ErrCollectionMismatch, "asset %s is not a verified member of %s", asset, collection)
		}

		participant, err := s.store.getParticipant(txn, user)
		if err != nil {
			return err
		}
		if participant.AmountStaked >= cfg.MaxStake {
			return errors.Wrapf(ErrStakeLimit, "max %d", cfg.MaxStake)
		}

		if err := s.store.createCustody(txn, &Custody{
			Owner:    user,
			Asset:    asset,
			StakedAt: now,
		}, user); err != nil {
			return err
		}
		if err := s.custody.hold(s, txn, user, asset); err != nil {
			return err
		}

		if err := participant.addStaked(); err != nil {
			return err
		}
		return s.store.updateParticipant(txn, user, participant)
	})
	if err == nil {
		logger.Debug().
			Str("user", user.String()).
			Str("asset", asset.String()).
			Uint64("at", now).
			Msg("asset staked")
	}
	return err
}

// Unstake releases the asset back to its owner once the freeze period
// elapsed (boundary inclusive), converts the completed cycle into points and
// destroys the custody record, refunding its storage cost to the owner.
func (s *Staker) Unstake(user, asset holdfast.Address, now uint64) (err error) {
	defer func() { meterOp("unstake", err) }()

	err = s.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		cfg, err := s.store.getConfig(txn)
		if err != nil {
			return err
		}
		custody, err := s.store.getCustody(txn, asset)
		if err != nil {
			return err
		}
		if custody.Owner != user {
			return errors.Wrapf(ErrUnauthorized, "custody of %s belongs to %s", asset, custody.Owner)
		}

		// evaluated before any state mutation
		if now < custody.StakedAt || now-custody.StakedAt < uint64(cfg.FreezePeriod) {
			return errors.Wrapf(ErrNotElapsed, "staked at %d, freeze period %ds", custody.StakedAt, cfg.FreezePeriod)
		}

		participant, err := s.store.getParticipant(txn, user)
		if err != nil {
			return err
		}
		if participant.AmountStaked == 0 {
			return errors.Wrap(ErrNothingStaked, "unstake")
		}
		if err := participant.subStaked(); err != nil {
			return err
		}
		if err := participant.addPoints(uint32(cfg.PointsPerStake)); err != nil {
			return err
		}
		if err := s.store.updateParticipant(txn, user, participant); err != nil {
			return err
		}

		if err := s.custody.release(s, txn, user, asset); err != nil {
			return err
		}
		return s.store.destroyCustody(txn, asset, user)
	})
	if err == nil {
		logger.Debug().
			Str("user", user.String()).
			Str("asset", asset.String()).
			Uint64("at", now).
			Msg("asset unstaked")
	}
	return err
}

// Claim mints the participant's accumulated points as reward tokens, signed
// by the config identity, and zeroes the point balance.
func (s *Staker) Claim(user holdfast.Address) (err error) {
	defer func() { meterOp("claim", err) }()

	var claimed uint32
	err = s.led.Transact([]holdfast.Address{user}, func(txn *ledger.Transaction) error {
		participant, err := s.store.getParticipant(txn, user)
		if err != nil {
			return err
		}
		if participant.Points == 0 {
			return errors.Wrap(ErrNoRewards, "claim")
		}
		claimed = participant.Points

		s.authorizeConfig(txn)
		if err := s.tokens.MintTo(txn, s.store.rewardsUnit(), user, uint64(participant.Points)); err != nil {
			return err
		}

		participant.Points = 0
		return s.store.updateParticipant(txn, user, participant)
	})
	if err == nil {
		logger.Debug().
			Str("user", user.String()).
			Uint32("points", claimed).
			Msg("rewards claimed")
	}
	return err
}

// Config returns the global staking parameters.
func (s *Staker) Config() (*Config, error) {
	var cfg *Config
	err := s.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		cfg, err = s.store.getConfig(txn)
		return
	})
	return cfg, err
}

// Participant returns the running totals of user.
func (s *Staker) Participant(user holdfast.Address) (*Participant, error) {
	var p *Participant
	err := s.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		p, err = s.store.getParticipant(txn, user)
		return
	})
	return p, err
}

// CustodyOf returns the custody record of asset, or ledger.ErrNotFound when
// the asset is not under program control.
func (s *Staker) CustodyOf(asset holdfast.Address) (*Custody, error) {
	var c *Custody
	err := s.led.Transact(nil, func(txn *ledger.Transaction) (err error) {
		c, err = s.store.getCustody(txn, asset)
		return
	})
	return c, err
}
