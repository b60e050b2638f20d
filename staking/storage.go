// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
)

// Record kinds of the staking program.
const (
	KindConfig      ledger.Kind = "staking.config"
	KindParticipant ledger.Kind = "staking.participant"
	KindCustody     ledger.Kind = "staking.custody"
)

// Identity derivation seeds. The derived identities double as record keys
// and signing authorities.
var (
	seedConfig  = []byte("config")
	seedRewards = []byte("rewards")
	seedUser    = []byte("user")
	seedStake   = []byte("stake")
)

// storage reads and writes the staking records of one program instance.
type storage struct {
	program holdfast.Address
}

func (s *storage) configKey() holdfast.Address {
	return holdfast.DeriveAddress(s.program, seedConfig)
}

func (s *storage) rewardsUnit() holdfast.Address {
	return holdfast.DeriveAddress(s.program, seedRewards, s.configKey().Bytes())
}

func (s *storage) participantKey(owner holdfast.Address) holdfast.Address {
	return holdfast.DeriveAddress(s.program, seedUser, owner.Bytes())
}

func (s *storage) custodyKey(asset holdfast.Address) holdfast.Address {
	return holdfast.DeriveAddress(s.program, seedStake, asset.Bytes(), s.configKey().Bytes())
}

func (s *storage) getConfig(txn *ledger.Transaction) (*Config, error) {
	var cfg Config
	if err := txn.Read(KindConfig, s.configKey(), &cfg); err != nil {
		return nil, errors.Wrap(err, "get config")
	}
	return &cfg, nil
}

func (s *storage) createConfig(txn *ledger.Transaction, cfg *Config, payer holdfast.Address) error {
	if err := txn.Create(KindConfig, s.configKey(), cfg, payer); err != nil {
		return errors.Wrap(err, "create config")
	}
	return nil
}

func (s *storage) getParticipant(txn *ledger.Transaction, owner holdfast.Address) (*Participant, error) {
	var p Participant
	if err := txn.Read(KindParticipant, s.participantKey(owner), &p); err != nil {
		return nil, errors.Wrap(err, "get participant")
	}
	return &p, nil
}

func (s *storage) createParticipant(txn *ledger.Transaction, owner holdfast.Address) error {
	if err := txn.Create(KindParticipant, s.participantKey(owner), &Participant{}, owner); err != nil {
		return errors.Wrap(err, "create participant")
	}
	return nil
}

func (s *storage) updateParticipant(txn *ledger.Transaction, owner holdfast.Address, p *Participant) error {
	if err := txn.Update(KindParticipant, s.participantKey(owner), p); err != nil {
		return errors.Wrap(err, "update participant")
	}
	return nil
}

func (s *storage) getCustody(txn *ledger.Transaction, asset holdfast.Address) (*Custody, error) {
	var c Custody
	if err := txn.Read(KindCustody, s.custodyKey(asset), &c); err != nil {
		return nil, errors.Wrap(err, "get custody")
	}
	return &c, nil
}

func (s *storage) createCustody(txn *ledger.Transaction, c *Custody, payer holdfast.Address) error {
	if err := txn.Create(KindCustody, s.custodyKey(c.Asset), c, payer); err != nil {
		return errors.Wrap(err, "create custody")
	}
	return nil
}

func (s *storage) destroyCustody(txn *ledger.Transaction, asset, refundTo holdfast.Address) error {
	if err := txn.Destroy(KindCustody, s.custodyKey(asset), refundTo); err != nil {
		return errors.Wrap(err, "destroy custody")
	}
	return nil
}
