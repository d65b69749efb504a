package public

import (
	"encoding/hex"

	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// info represents the wallet information for an account.
type info struct {
	Account wallet.Address `json:"account"`
	Name    string         `json:"name"`
	Balance string         `json:"balance"`
	Nonce   uint64         `json:"nonce"`
}

// actInfo is the response for the accounts endpoint.
type actInfo struct {
	StateChecksum string `json:"state_checksum"`
	Uncommitted   int    `json:"uncommitted"`
	Accounts      []info `json:"accounts,omitempty"`
}

// transaction represents a pending transaction for the mempool endpoint.
type transaction struct {
	Type      uint16         `json:"type"`
	From      wallet.Address `json:"from"`
	FromName  string         `json:"from_name"`
	To        wallet.Address `json:"to"`
	ToName    string         `json:"to_name"`
	Nonce     uint64         `json:"nonce"`
	Amount    string         `json:"amount"`
	Data      []byte         `json:"data,omitempty"`
	TimeStamp uint64         `json:"timestamp"`
	Sig       string         `json:"sig"`
}

// block is the response form of a chain block.
type block struct {
	Number       uint64 `json:"number"`
	PrevChecksum string `json:"prev_checksum"`
	WalletHash   string `json:"wallet_hash"`
	Difficulty   uint64 `json:"difficulty"`
	TimeStamp    uint64 `json:"timestamp"`
	Checksum     string `json:"checksum"`
	PowField     string `json:"pow_field,omitempty"`
	PowSolver    string `json:"pow_solver,omitempty"`
	NumTxs       int    `json:"num_txs"`
}

// toBlock renders a chain block with hex encoded checksums.
func toBlock(b chain.Block) block {
	return block{
		Number:       b.Number,
		PrevChecksum: hex.EncodeToString(b.PrevChecksum),
		WalletHash:   hex.EncodeToString(b.WalletHash),
		Difficulty:   b.Difficulty,
		TimeStamp:    b.TimeStamp,
		Checksum:     hex.EncodeToString(b.Checksum),
		PowField:     hex.EncodeToString(b.PowField),
		PowSolver:    b.PowSolverAddr,
		NumTxs:       len(b.Transactions),
	}
}
