package state

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
	"github.com/ixianlabs/dlt/foundation/blockchain/miner"
	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
)

// ErrSnapshotActive is returned when block application can't take its
// wallet state snapshot.
var ErrSnapshotActive = errors.New("wallet state snapshot already active")

// =============================================================================

// ProduceBlock builds the next block from the pending transactions and
// appends it to the chain. The transactions are applied speculatively
// against a wallet state snapshot; the resulting state checksum is bound
// into the block before the snapshot commits.
func (s *State) ProduceBlock() (chain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.wallet.Snapshot() {
		return chain.Block{}, ErrSnapshotActive
	}

	txs := s.mempool.PickBest()
	applied := make([]tx.SignedTx, 0, len(txs))

	for _, stx := range txs {
		if err := s.applyTransaction(stx); err != nil {
			s.evHandler("state: ProduceBlock: WARNING: dropping tx[%s]: %s", stx, err)
			s.mempool.Delete(stx)
			continue
		}
		applied = append(applied, stx)
	}

	lastBlock, err := s.chain.GetBlock(s.chain.LastBlockNum())
	if err != nil {
		s.wallet.Revert()
		return chain.Block{}, fmt.Errorf("reading tail block: %w", err)
	}

	b := chain.Block{
		Number:       lastBlock.Number + 1,
		PrevChecksum: lastBlock.Checksum,
		WalletHash:   s.wallet.Checksum(true),
		Difficulty:   s.genesis.Difficulty,
		TimeStamp:    uint64(time.Now().UTC().Unix()),
		Transactions: applied,
	}
	b.Checksum = b.ComputeChecksum()

	if err := s.chain.Add(b); err != nil {
		s.wallet.Revert()
		return chain.Block{}, err
	}

	s.wallet.Commit()

	for _, stx := range applied {
		s.mempool.Delete(stx)
	}

	s.evHandler("state: ProduceBlock: block[%d] txs[%d] walletHash[%s]", b.Number, len(applied), hex.EncodeToString(b.WalletHash))

	return b, nil
}

// ProcessBlock applies a block received from another node. The
// transactions run against a snapshot and the resulting state checksum
// must match the one carried by the block; a mismatch reverts every
// speculative change.
func (s *State) ProcessBlock(b chain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !bytes.Equal(b.Checksum, b.ComputeChecksum()) {
		return fmt.Errorf("block %d checksum does not match header", b.Number)
	}

	if !s.wallet.Snapshot() {
		return ErrSnapshotActive
	}

	for _, stx := range b.Transactions {
		if err := s.applyTransaction(stx); err != nil {
			s.wallet.Revert()
			return fmt.Errorf("block %d tx[%s]: %w", b.Number, stx, err)
		}
	}

	if !bytes.Equal(s.wallet.Checksum(true), b.WalletHash) {
		s.wallet.Revert()
		return fmt.Errorf("block %d wallet state checksum mismatch", b.Number)
	}

	if err := s.chain.Add(b); err != nil {
		s.wallet.Revert()
		return err
	}

	s.wallet.Commit()

	for _, stx := range b.Transactions {
		s.mempool.Delete(stx)
	}

	return nil
}

// =============================================================================

// applyTransaction mutates the wallet state snapshot for a single
// transaction. The caller must hold the state mutex and an active
// snapshot.
func (s *State) applyTransaction(stx tx.SignedTx) error {
	if err := stx.Validate(); err != nil {
		return err
	}

	switch stx.Type {
	case tx.TypePoWSolution:
		return s.applyPoWSolution(stx)
	case tx.TypeTransfer:
		return s.applyTransfer(stx)
	}

	return fmt.Errorf("unknown transaction type %d", stx.Type)
}

// applyTransfer moves value between two wallets inside the snapshot.
func (s *State) applyTransfer(stx tx.SignedTx) error {
	if stx.FromID == stx.ToID {
		return fmt.Errorf("transaction sends money to itself, from %s, to %s", stx.FromID, stx.ToID)
	}

	from := s.wallet.Get(stx.FromID, true)

	if stx.Nonce <= from.Nonce {
		return fmt.Errorf("nonce too small, current %d, provided %d", from.Nonce, stx.Nonce)
	}

	newBalance, err := from.Balance.Sub(stx.Amount)
	if err != nil {
		return fmt.Errorf("%s has an insufficient balance", stx.FromID)
	}

	to := s.wallet.Get(stx.ToID, true)

	s.wallet.SetBalance(stx.FromID, newBalance, true, stx.Nonce)
	s.wallet.SetBalance(stx.ToID, to.Balance.Add(stx.Amount), true, to.Nonce)

	return nil
}

// applyPoWSolution verifies a claimed proof-of-work solution, seals the
// solved block, and credits the block reward to the solver.
func (s *State) applyPoWSolution(stx tx.SignedTx) error {
	sol, err := tx.ParsePoWSolution(stx.Data)
	if err != nil {
		return err
	}

	target, err := s.chain.GetBlock(sol.BlockNum)
	if err != nil {
		return fmt.Errorf("solved block %d not in redacted window", sol.BlockNum)
	}

	// A local miner seals its own chain view before the solution loops
	// back through the pool. Anyone else's seal makes this solution stale.
	if target.IsSealed() && target.PowSolverAddr != string(stx.FromID) {
		return fmt.Errorf("block %d already sealed by %s", sol.BlockNum, target.PowSolverAddr)
	}

	if !miner.VerifyNonce(s.chain, sol.Nonce, sol.BlockNum, stx.FromID, target.Difficulty) {
		return fmt.Errorf("invalid pow solution for block %d", sol.BlockNum)
	}

	if !target.IsSealed() {
		powField, err := hex.DecodeString(miner.PowHash(target.Checksum, stx.FromID, sol.Nonce))
		if err != nil {
			return err
		}
		if err := s.chain.Seal(sol.BlockNum, powField, string(stx.FromID)); err != nil {
			return err
		}
	}

	solver := s.wallet.Get(stx.FromID, true)
	s.wallet.SetBalance(stx.FromID, solver.Balance.Add(s.blockReward), true, solver.Nonce)

	return nil
}
