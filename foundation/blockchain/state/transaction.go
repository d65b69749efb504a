package state

import (
	"fmt"

	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
)

// SubmitTransaction accepts a signed transaction into the pending pool
// after validation. Accepted transactions signal the worker that a new
// block can be produced.
func (s *State) SubmitTransaction(stx tx.SignedTx) error {
	if err := stx.Validate(); err != nil {
		return fmt.Errorf("validating transaction: %w", err)
	}

	s.evHandler("state: SubmitTransaction: tx[%s] type[%d]", stx, stx.Type)

	s.mempool.Upsert(stx)

	if s.Worker != nil {
		s.Worker.SignalProduceBlock()
	}

	return nil
}

// SendTx implements the broadcaster contract the miner hands solutions to.
// Without a peer-to-peer transport the solution loops back into the local
// pool.
func (s *State) SendTx(stx tx.SignedTx) error {
	return s.SubmitTransaction(stx)
}

// Mempool returns a copy of the pending transactions.
func (s *State) Mempool() []tx.SignedTx {
	return s.mempool.PickBest()
}
