// Package chain maintains the in-memory view of the block chain inside the
// redacted window. Blocks older than the window are pruned.
package chain

import (
	"crypto/sha256"
	"fmt"

	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
)

// Block represents a single block inside the redacted window. A block with
// an empty PowField has not been sealed by a proof-of-work solution yet.
type Block struct {
	Number        uint64        `json:"number"`
	PrevChecksum  []byte        `json:"prev_checksum"`
	WalletHash    []byte        `json:"wallet_hash"`
	Difficulty    uint64        `json:"difficulty"`
	TimeStamp     uint64        `json:"timestamp"`
	Checksum      []byte        `json:"checksum"`
	PowField      []byte        `json:"pow_field,omitempty"`
	PowSolverAddr string        `json:"pow_solver,omitempty"`
	Transactions  []tx.SignedTx `json:"transactions,omitempty"`
}

// ComputeChecksum returns the checksum binding the block header fields.
// Only the header takes part so the chain can be checked from headers
// alone; sealing a block must not change its identity either, so the pow
// field is excluded as well.
func (b Block) ComputeChecksum() []byte {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%d:", b.Number, b.Difficulty, b.TimeStamp)
	h.Write(b.PrevChecksum)
	h.Write(b.WalletHash)
	return h.Sum(nil)
}

// IsSealed reports whether the block carries a proof-of-work solution.
func (b Block) IsSealed() bool {
	return len(b.PowField) > 0
}

// Copy returns a block that shares no mutable state with the receiver.
func (b Block) Copy() Block {
	cp := b
	cp.PrevChecksum = append([]byte(nil), b.PrevChecksum...)
	cp.WalletHash = append([]byte(nil), b.WalletHash...)
	cp.Checksum = append([]byte(nil), b.Checksum...)
	cp.PowField = append([]byte(nil), b.PowField...)
	cp.Transactions = append([]tx.SignedTx(nil), b.Transactions...)
	return cp
}
