// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/pkg/errors"

var (
	// ErrExists is returned when creating a record whose key already exists.
	ErrExists = errors.New("record already exists")

	// ErrNotFound is returned when a required record is missing.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned at commit time when a record read by the
	// transaction was modified by a concurrent commit. The transaction had
	// no effect and may be retried.
	ErrConflict = errors.New("stale read, transaction rejected")

	// ErrUnauthorized is returned when an operation requires a signature
	// the transaction does not carry.
	ErrUnauthorized = errors.New("missing required signature")

	// ErrInsufficientBalance is returned when a payer cannot cover a
	// storage deposit.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
