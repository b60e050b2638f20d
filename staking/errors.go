// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// Failure kinds of the staking operations. Duplicate-creation and
// missing-record failures surface as ledger.ErrExists and ledger.ErrNotFound.
var (
	// ErrStakeLimit is returned when a participant already has the maximum
	// number of assets in custody.
	ErrStakeLimit = errors.New("stake limit reached")

	// ErrNotElapsed is returned when the freeze period has not passed yet.
	ErrNotElapsed = errors.New("freeze period not elapsed")

	// ErrNothingStaked is returned when unstaking with a zero staked count.
	ErrNothingStaked = errors.New("nothing staked")

	// ErrNoRewards is returned when claiming with zero points.
	ErrNoRewards = errors.New("no points to claim")

	// ErrUnderflow is returned when a checked subtraction would wrap.
	ErrUnderflow = errors.New("arithmetic underflow")

	// ErrOverflow is returned when a checked addition would wrap.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrUnauthorized is returned when the caller is not the owner of the
	// custody record being released.
	ErrUnauthorized = errors.New("caller is not the custody owner")

	// ErrCollectionMismatch is returned when the asset's verified collection
	// membership does not match the declared collection.
	ErrCollectionMismatch = errors.New("collection mismatch")
)
