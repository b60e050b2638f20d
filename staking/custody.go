// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
	"github.com/holdfast-network/holdfast/token"
)

// Strategy establishes program custody over an asset at stake time and
// releases it at unstake time. A Staker applies the same strategy to both
// sides, so custody established one way is always released the same way.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	hold(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error
	release(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error
}

// VaultTransfer is the custody strategy that moves the asset into a
// program-controlled holding, addressed deterministically by the asset's
// identity, with the config identity as its owner. It is the canonical
// strategy.
func VaultTransfer() Strategy { return vaultTransfer{} }

// DelegateFreeze is the custody strategy that leaves the asset with its
// owner: the custody record is granted delegate authority over one unit of
// the asset and the owner's holding is frozen so it cannot move.
func DelegateFreeze() Strategy { return delegateFreeze{} }

type vaultTransfer struct{}

func (vaultTransfer) Name() string { return "vault-transfer" }

func (vaultTransfer) hold(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error {
	// owner signed the transaction, the transfer into the vault is theirs
	if err := s.tokens.Transfer(txn, asset, owner, s.store.configKey(), 1); err != nil {
		return errors.Wrap(err, "move asset into vault")
	}
	return nil
}

func (vaultTransfer) release(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error {
	s.authorizeConfig(txn)
	if err := s.tokens.Transfer(txn, asset, s.store.configKey(), owner, 1); err != nil {
		return errors.Wrap(err, "move asset out of vault")
	}
	return nil
}

type delegateFreeze struct{}

func (delegateFreeze) Name() string { return "delegate-freeze" }

func (delegateFreeze) hold(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error {
	// delegation alone would not prove possession
	bal, err := s.tokens.BalanceOf(txn, asset, owner)
	if err != nil {
		return err
	}
	if bal < 1 {
		return errors.Wrapf(token.ErrInsufficient, "asset %s not held by %s", asset, owner)
	}

	if err := s.tokens.Delegate(txn, asset, owner, s.store.custodyKey(asset), 1); err != nil {
		return errors.Wrap(err, "delegate asset to custody record")
	}
	s.authorizeCustody(txn, asset)
	if err := s.tokens.Freeze(txn, asset, owner); err != nil {
		return errors.Wrap(err, "freeze delegated asset")
	}
	return nil
}

func (delegateFreeze) release(s *Staker, txn *ledger.Transaction, owner, asset holdfast.Address) error {
	s.authorizeCustody(txn, asset)
	if err := s.tokens.Unfreeze(txn, asset, owner); err != nil {
		return errors.Wrap(err, "unfreeze asset")
	}
	if err := s.tokens.Revoke(txn, asset, owner); err != nil {
		return errors.Wrap(err, "revoke custody delegation")
	}
	return nil
}
