// Copyright (c) 2026 The Holdfast developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

// StorageEncoder defines the interface of a record payload encoder.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder defines the interface of a record payload decoder.
type StorageDecoder interface {
	Decode(data []byte) error
}

// Record is a typed record payload, both encodable and decodable.
type Record interface {
	StorageEncoder
	StorageDecoder
}

// envelope is the stored form of a record. Version increases on every write
// and backs conflict detection; Deposit is the storage cost charged at
// creation, refunded when the record is destroyed.
type envelope struct {
	Version uint64
	Deposit uint64
	Payload []byte
}

// storage cost parameters, charged per record at creation time.
const (
	depositBase    = 100_000
	depositPerByte = 1_000
)

func storageCost(payloadLen int) uint64 {
	return depositBase + depositPerByte*uint64(payloadLen)
}
