// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/holdfast-network/holdfast/holdfast"
	"github.com/holdfast-network/holdfast/ledger"
)

var (
	_ ledger.Record = (*Mint)(nil)
	_ ledger.Record = (*Holding)(nil)
)

// Mint describes a token unit. Authority is both the minting and the freeze
// authority.
type Mint struct {
	Authority holdfast.Address
	Decimals  uint8
	Supply    uint64
}

// Encode implements ledger.StorageEncoder.
func (m *Mint) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

// Decode implements ledger.StorageDecoder.
func (m *Mint) Decode(data []byte) error {
	return rlp.DecodeBytes(data, m)
}

// Holding is the per-holder account of a token unit. A zero Delegate means
// no delegation is in place.
type Holding struct {
	Amount    uint64
	Delegate  holdfast.Address
	Delegated uint64
	Frozen    bool
}

// Encode implements ledger.StorageEncoder.
func (h *Holding) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(h)
}

// Decode implements ledger.StorageDecoder.
func (h *Holding) Decode(data []byte) error {
	return rlp.DecodeBytes(data, h)
}
