// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
)

var (
	_ ledger.Record = (*Config)(nil)
	_ ledger.Record = (*Participant)(nil)
	_ ledger.Record = (*Custody)(nil)
)

// Config contains the global staking parameters. It is created once and
// never mutated afterwards; its record key doubles as the signing authority
// for reward minting and custody release.
type Config struct {
	PointsPerStake uint8  // reward points granted per completed stake cycle
	MaxStake       uint8  // ceiling on concurrently staked assets per participant
	FreezePeriod   uint32 // minimum custody time in seconds before reclaim
}

// Encode implements ledger.StorageEncoder.
func (c *Config) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

// Decode implements ledger.StorageDecoder.
func (c *Config) Decode(data []byte) error {
	return rlp.DecodeBytes(data, c)
}

// Participant keeps the per-user running totals.
type Participant struct {
	AmountStaked uint8  // assets currently in custody for this user
	Points       uint32 // unredeemed reward points
}

// Encode implements ledger.StorageEncoder.
func (p *Participant) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

// Decode implements ledger.StorageDecoder.
func (p *Participant) Decode(data []byte) error {
	return rlp.DecodeBytes(data, p)
}

func (p *Participant) addStaked() error {
	if p.AmountStaked == math.MaxUint8 {
		return errors.Wrap(ErrOverflow, "amount staked")
	}
	p.AmountStaked++
	return nil
}

func (p *Participant) subStaked() error {
	if p.AmountStaked == 0 {
		return errors.Wrap(ErrUnderflow, "amount staked")
	}
	p.AmountStaked--
	return nil
}

func (p *Participant) addPoints(points uint32) error {
	if p.Points > math.MaxUint32-points {
		return errors.Wrap(ErrOverflow, "points")
	}
	p.Points += points
	return nil
}

// Custody marks an asset as held by the program. The record exists if and
// only if the asset is under program control.
type Custody struct {
	Owner    holdfast.Address // the participant who deposited the asset
	Asset    holdfast.Address // the asset in custody
	StakedAt uint64           // unix seconds of the deposit
}

// Encode implements ledger.StorageEncoder.
func (c *Custody) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

// Decode implements ledger.StorageDecoder.
func (c *Custody) Decode(data []byte) error {
	return rlp.DecodeBytes(data, c)
}
