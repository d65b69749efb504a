// Package state is the core API for the node and implements the block
// processor that drives the wallet state through speculative block
// application.
package state

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
	"github.com/ixianlabs/dlt/foundation/blockchain/genesis"
	"github.com/ixianlabs/dlt/foundation/blockchain/mempool"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events occur in the
// processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background block production.
type Worker interface {
	Shutdown()
	SignalProduceBlock()
}

// =============================================================================

// Config represents the configuration required to start the block
// processor.
type Config struct {
	Genesis   genesis.Genesis
	Wallet    *wallet.State
	Chain     *chain.Chain
	Mempool   *mempool.Mempool
	EvHandler EventHandler
}

// State manages the ledger: the wallet state, the chain view and the pool
// of pending transactions.
type State struct {
	mu sync.Mutex

	genesis     genesis.Genesis
	blockReward amount.Amount
	evHandler   EventHandler

	wallet  *wallet.State
	chain   *chain.Chain
	mempool *mempool.Mempool

	operating atomic.Bool

	Worker Worker
}

// New constructs the block processor, applies the genesis balances to an
// empty wallet state, and lays down the genesis block on an empty chain.
func New(cfg Config) (*State, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	blockReward, err := amount.Parse(cfg.Genesis.BlockReward)
	if err != nil {
		return nil, fmt.Errorf("parsing block reward: %w", err)
	}

	s := State{
		genesis:     cfg.Genesis,
		blockReward: blockReward,
		evHandler:   ev,
		wallet:      cfg.Wallet,
		chain:       cfg.Chain,
		mempool:     cfg.Mempool,
	}

	if s.wallet.NumWallets() == 0 {
		for addr, balance := range cfg.Genesis.Balances {
			id, err := wallet.ToAddress(addr)
			if err != nil {
				return nil, fmt.Errorf("genesis balance address %q: %w", addr, err)
			}

			amt, err := amount.Parse(balance)
			if err != nil {
				return nil, fmt.Errorf("genesis balance for %q: %w", addr, err)
			}

			s.wallet.SetBalance(id, amt, false, 0)
		}
	}

	if s.chain.LastBlockNum() == 0 {
		b := chain.Block{
			Number:     1,
			WalletHash: s.wallet.Checksum(false),
			Difficulty: cfg.Genesis.Difficulty,
			TimeStamp:  uint64(cfg.Genesis.Date.UTC().Unix()),
		}
		b.Checksum = b.ComputeChecksum()

		if err := s.chain.Add(b); err != nil {
			return nil, fmt.Errorf("adding genesis block: %w", err)
		}
	}

	s.operating.Store(true)

	// The Worker is not set here. The call to worker.Run will assign
	// itself and start the background block production.

	return &s, nil
}

// Shutdown cleanly brings the processor down.
func (s *State) Shutdown() error {
	s.operating.Store(false)

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Operating reports whether the processor accepts and produces blocks.
// The miner stays idle while this is false.
func (s *State) Operating() bool {
	return s.operating.Load()
}

// =============================================================================

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// LatestBlock returns a copy of the current tail block.
func (s *State) LatestBlock() (chain.Block, error) {
	return s.chain.GetBlock(s.chain.LastBlockNum())
}

// GetBlock returns a copy of the specified block if it is inside the
// redacted window.
func (s *State) GetBlock(num uint64) (chain.Block, error) {
	return s.chain.GetBlock(num)
}

// Wallet returns the record for the specified address from the committed
// state.
func (s *State) Wallet(id wallet.Address) wallet.Wallet {
	return s.wallet.Get(id, false)
}

// StateChecksum returns the checksum of the committed wallet state.
func (s *State) StateChecksum() []byte {
	return s.wallet.Checksum(false)
}

// TotalSupply returns the sum of all committed balances.
func (s *State) TotalSupply() amount.Amount {
	return s.wallet.TotalSupply()
}

// Chunks partitions the committed wallet state for sync.
func (s *State) Chunks(chunkSize int) []wallet.WsChunk {
	return s.wallet.Chunks(chunkSize, s.chain.LastBlockNum())
}

// ApplyChunk installs a sync chunk into the wallet state.
func (s *State) ApplyChunk(wallets []wallet.Wallet) bool {
	return s.wallet.ApplyChunk(wallets)
}

// MempoolCount returns the number of pending transactions.
func (s *State) MempoolCount() int {
	return s.mempool.Count()
}
