// Package mempool maintains the pool of transactions waiting to be
// included into a block.
package mempool

import (
	"sort"
	"sync"

	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
)

// Mempool represents a cache of transactions organized by transaction id.
type Mempool struct {
	mu   sync.RWMutex
	pool map[string]tx.SignedTx
}

// New constructs a new mempool for pending transactions.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]tx.SignedTx),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the pool.
func (mp *Mempool) Upsert(stx tx.SignedTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[stx.ID()] = stx
}

// Delete removes a transaction from the pool.
func (mp *Mempool) Delete(stx tx.SignedTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, stx.ID())
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]tx.SignedTx)
}

// PickBest returns a copy of the pending transactions ordered oldest
// first, with proof-of-work solutions ahead of transfers at the same
// timestamp so seals land before the balances they unlock.
func (mp *Mempool) PickBest() []tx.SignedTx {
	mp.mu.RLock()
	txs := make([]tx.SignedTx, 0, len(mp.pool))
	for _, stx := range mp.pool {
		txs = append(txs, stx)
	}
	mp.mu.RUnlock()

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].TimeStamp != txs[j].TimeStamp {
			return txs[i].TimeStamp < txs[j].TimeStamp
		}
		if txs[i].Type != txs[j].Type {
			return txs[i].Type == tx.TypePoWSolution
		}
		return txs[i].ID() < txs[j].ID()
	})

	return txs
}
