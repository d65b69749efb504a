// Package miner implements the proof-of-work mining loop. The miner scans
// the chain tail for unsealed blocks and searches Argon2id pre-images
// meeting the block difficulty.
package miner

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// minChainLength is the chain height below which the miner stays idle.
const minChainLength = 10

// idleSleep is how long the miner sleeps when there is no work.
const idleSleep = time.Second

// statusInterval is the cadence of hashrate reports.
const statusInterval = time.Second

// =============================================================================

// BlockChain represents the behavior required from the chain view the miner
// scans for work and marks with found solutions.
type BlockChain interface {
	LastBlockNum() uint64
	GetBlock(num uint64) (chain.Block, error)
	Seal(num uint64, powField []byte, solverAddr string) error
}

// BlockProcessor reports whether the node is operating and blocks may be
// mined.
type BlockProcessor interface {
	Operating() bool
}

// Broadcaster represents the protocol layer handed found solutions.
type Broadcaster interface {
	SendTx(stx tx.SignedTx) error
}

// EventHandler defines a function that is called when events occur in the
// processing of the miner.
type EventHandler func(v string, args ...any)

// =============================================================================

// miner states.
type runState int

const (
	stateIdle runState = iota
	stateSearching
	stateSolving
)

// Config represents the configuration required to construct a miner.
type Config struct {
	Chain          BlockChain
	Processor      BlockProcessor
	Broadcast      Broadcaster
	PrivateKey     *ecdsa.PrivateKey
	RedactedWindow uint64
	Disabled       bool
	EvHandler      EventHandler
}

// Miner searches for proof-of-work solutions on a dedicated goroutine. A
// miner does not share state with other miners; each instance seeds its own
// nonce source.
type Miner struct {
	chain          BlockChain
	processor      BlockProcessor
	broadcast      Broadcaster
	privateKey     *ecdsa.PrivateKey
	solverID       wallet.Address
	publicKey      []byte
	redactedWindow uint64
	disabled       bool
	evHandler      EventHandler

	rng        *rand.Rand
	shouldStop atomic.Bool
	wg         sync.WaitGroup

	activeBlock chain.Block
	difficulty  uint64

	hashCount  uint64
	lastStatus time.Time
}

// New constructs a miner for the specified solver key.
func New(cfg Config) *Miner {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	m := Miner{
		chain:          cfg.Chain,
		processor:      cfg.Processor,
		broadcast:      cfg.Broadcast,
		privateKey:     cfg.PrivateKey,
		solverID:       wallet.PublicKeyToAddress(cfg.PrivateKey.PublicKey),
		publicKey:      crypto.FromECDSAPub(&cfg.PrivateKey.PublicKey),
		redactedWindow: cfg.RedactedWindow,
		disabled:       cfg.Disabled,
		evHandler:      ev,
		rng:            newNonceSource(),
	}

	return &m
}

// SolverID returns the address solutions are credited to.
func (m *Miner) SolverID() wallet.Address {
	return m.solverID
}

// Start launches the mining goroutine. It reports false without starting
// anything when mining is disabled by configuration.
func (m *Miner) Start() bool {
	if m.disabled {
		m.evHandler("miner: Start: WARNING: mining is disabled by configuration")
		return false
	}

	m.shouldStop.Store(false)
	m.lastStatus = time.Now()

	m.wg.Add(1)
	go m.run()

	m.evHandler("miner: Start: mining started: solver[%s]", m.solverID)
	return true
}

// Stop signals the mining goroutine to terminate and returns immediately.
// An in-progress hash completes first; the flag is honored between
// iterations.
func (m *Miner) Stop() {
	m.shouldStop.Store(true)
}

// Shutdown stops the miner and waits for the mining goroutine to drain.
func (m *Miner) Shutdown() {
	m.evHandler("miner: Shutdown: started")
	defer m.evHandler("miner: Shutdown: completed")

	m.Stop()
	m.wg.Wait()
}

// =============================================================================

// run drives the Idle / Searching / Solving state machine until stopped.
func (m *Miner) run() {
	defer m.wg.Done()

	st := stateIdle

	for !m.shouldStop.Load() {
		switch st {
		case stateIdle:
			if m.processor.Operating() && m.chain.LastBlockNum() >= minChainLength {
				st = stateSearching
				continue
			}
			time.Sleep(idleSleep)

		case stateSearching:
			block, found := m.findUnsealedBlock()
			if !found {
				st = stateIdle
				time.Sleep(idleSleep)
				continue
			}

			m.activeBlock = block
			m.difficulty = clampDifficulty(block.Difficulty)
			m.evHandler("miner: run: SEARCHING: found unsealed block[%d] difficulty[%d]", block.Number, m.difficulty)
			st = stateSolving

		case stateSolving:
			if m.attemptHash() {
				st = stateIdle
			}
			m.reportStatistics()
		}
	}
}

// findUnsealedBlock scans from the chain tail backwards through the
// redacted window and returns the most recent block without a solution.
func (m *Miner) findUnsealedBlock() (chain.Block, bool) {
	lastBlockNum := m.chain.LastBlockNum()

	var oldest uint64
	if lastBlockNum > m.redactedWindow {
		oldest = lastBlockNum - m.redactedWindow
	}

	for num := lastBlockNum; num > oldest; num-- {
		block, err := m.chain.GetBlock(num)
		if err != nil {
			continue
		}

		if !block.IsSealed() {
			return block, true
		}
	}

	return chain.Block{}, false
}

// attemptHash performs one puzzle attempt against the active block. It
// reports true when a solution was found and handed to the protocol layer.
func (m *Miner) attemptHash() bool {
	nonce := randomNonce(m.rng)

	hashHex := PowHash(m.activeBlock.Checksum, m.solverID, nonce)
	m.hashCount++

	if !ValidateHash(hashHex, m.difficulty) {
		return false
	}

	m.evHandler("miner: attemptHash: SOLVED: block[%d] difficulty[%d] hash[%s]", m.activeBlock.Number, m.difficulty, hashHex)

	powField, err := hex.DecodeString(hashHex)
	if err != nil {
		m.evHandler("miner: attemptHash: ERROR: decoding solution hash: %s", err)
		return true
	}

	// Mark the local chain view so the next search pass moves on. The
	// network-wide seal happens when the solution transaction is applied.
	if err := m.chain.Seal(m.activeBlock.Number, powField, string(m.solverID)); err != nil {
		m.evHandler("miner: attemptHash: WARNING: sealing local block: %s", err)
	}

	if err := m.broadcastSolution(nonce); err != nil {
		m.evHandler("miner: attemptHash: ERROR: broadcasting solution: %s", err)
	}

	return true
}

// broadcastSolution signs and hands the solution transaction to the
// protocol layer.
func (m *Miner) broadcastSolution(nonce string) error {
	solution, err := tx.NewPoWSolution(m.solverID, m.publicKey, m.activeBlock.Number, nonce)
	if err != nil {
		return err
	}

	stx, err := solution.Sign(m.privateKey)
	if err != nil {
		return err
	}

	return m.broadcast.SendTx(stx)
}

// reportStatistics prints and resets the attempt counter at the status
// cadence.
func (m *Miner) reportStatistics() {
	elapsed := time.Since(m.lastStatus)
	if elapsed < statusInterval {
		return
	}

	rate := float64(m.hashCount) / elapsed.Seconds()
	m.evHandler("miner: stats: hashrate[%.0f H/s] block[%d]", rate, m.activeBlock.Number)

	m.hashCount = 0
	m.lastStatus = time.Now()
}
