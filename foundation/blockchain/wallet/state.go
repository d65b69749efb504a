package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
)

// checksumSeed is the network literal every replica folds the wallet
// checksum from. Changing it breaks consensus with deployed nodes.
const checksumSeed = "IXIAN-DLT"

// EventHandler defines a function that is called when events occur in the
// processing of the wallet state.
type EventHandler func(v string, args ...any)

// =============================================================================

// State manages the mapping of addresses to wallet records. The base map is
// the committed ground truth. While a snapshot is active, writes land in a
// copy-on-write delta overlay that a commit merges into the base and a
// revert discards.
type State struct {
	mu sync.Mutex

	base  map[Address]Wallet
	delta map[Address]Wallet

	cachedChecksum      []byte
	cachedDeltaChecksum []byte

	evHandler EventHandler
}

// New constructs a wallet state for managing account records.
func New(evHandler EventHandler) *State {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &State{
		base:      make(map[Address]Wallet),
		evHandler: ev,
	}
}

// Clone makes a deep copy of the current state. The delta overlay is copied
// only when a snapshot is active.
func (s *State) Clone() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := State{
		base:      make(map[Address]Wallet, len(s.base)),
		evHandler: s.evHandler,
	}

	for id, w := range s.base {
		clone.base[id] = w.Copy()
	}
	if s.cachedChecksum != nil {
		clone.cachedChecksum = append([]byte(nil), s.cachedChecksum...)
	}

	if s.delta != nil {
		clone.delta = make(map[Address]Wallet, len(s.delta))
		for id, w := range s.delta {
			clone.delta[id] = w.Copy()
		}
		if s.cachedDeltaChecksum != nil {
			clone.cachedDeltaChecksum = append([]byte(nil), s.cachedDeltaChecksum...)
		}
	}

	return &clone
}

// =============================================================================

// Get returns a copy of the record for the specified address. With
// fromSnapshot set, the delta overlay is consulted first. Missing records
// return a zero-initialized wallet carrying the address.
func (s *State) Get(id Address, fromSnapshot bool) Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(id, fromSnapshot).Copy()
}

// GetBalance returns the balance for the specified address.
func (s *State) GetBalance(id Address, fromSnapshot bool) amount.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(id, fromSnapshot).Balance.Copy()
}

// SetBalance writes a record with the specified balance and nonce. With
// toSnapshot set, the write lands in the delta overlay; calling it without
// an active snapshot drops the write and reports false.
func (s *State) SetBalance(id Address, balance amount.Amount, toSnapshot bool, nonce uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := Wallet{
		ID:      id,
		Balance: balance.Copy(),
		Nonce:   nonce,
	}

	if toSnapshot {
		if s.delta == nil {
			s.evHandler("wallet: SetBalance: WARNING: no active snapshot, balance for %s not applied", id)
			return false
		}
		s.delta[id] = w
		s.cachedDeltaChecksum = nil
		return true
	}

	s.base[id] = w
	s.invalidateBase()
	return true
}

// SetNonce updates the nonce of an existing record, preserving its balance
// and data. Updating a record that exists in neither layer drops the write
// and reports false.
func (s *State) SetNonce(id Address, nonce uint64, toSnapshot bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if toSnapshot && s.delta == nil {
		s.evHandler("wallet: SetNonce: WARNING: no active snapshot, nonce for %s not applied", id)
		return false
	}

	if !s.exists(id, toSnapshot) {
		s.evHandler("wallet: SetNonce: WARNING: unknown wallet %s, nonce not applied", id)
		return false
	}

	w := s.lookup(id, toSnapshot).Copy()
	w.Nonce = nonce

	if toSnapshot {
		s.delta[id] = w
		s.cachedDeltaChecksum = nil
		return true
	}

	s.base[id] = w
	s.invalidateBase()
	return true
}

// =============================================================================

// Snapshot creates an empty delta overlay for speculative writes. It
// reports false when a snapshot is already active. Snapshots do not nest.
func (s *State) Snapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delta != nil {
		return false
	}

	s.delta = make(map[Address]Wallet)
	return true
}

// Commit merges the delta overlay into the base map and ends the snapshot.
// Both cached checksums are cleared, even when the delta was empty.
func (s *State) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delta == nil {
		return
	}

	for id, w := range s.delta {
		s.base[id] = w
	}

	s.delta = nil
	s.cachedChecksum = nil
	s.cachedDeltaChecksum = nil
}

// Revert discards the delta overlay and ends the snapshot. The base map and
// its cached checksum are untouched.
func (s *State) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delta == nil {
		return
	}

	s.delta = nil
	s.cachedDeltaChecksum = nil
}

// InSnapshot reports whether a snapshot is currently active.
func (s *State) InSnapshot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.delta != nil
}

// Clear empties the wallet state, dropping any active snapshot.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = make(map[Address]Wallet)
	s.delta = nil
	s.cachedChecksum = nil
	s.cachedDeltaChecksum = nil
}

// NumWallets returns the number of committed records.
func (s *State) NumWallets() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.base)
}

// =============================================================================

// Checksum returns the deterministic checksum over the wallet state. With
// fromSnapshot set and a snapshot active, records in the delta overlay take
// part with their overlay values. The result is memoized until the next
// mutation of the corresponding layer.
func (s *State) Checksum(fromSnapshot bool) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	useDelta := fromSnapshot && s.delta != nil

	if useDelta && s.cachedDeltaChecksum != nil {
		return append([]byte(nil), s.cachedDeltaChecksum...)
	}
	if !useDelta && s.cachedChecksum != nil {
		return append([]byte(nil), s.cachedChecksum...)
	}

	ids := make([]Address, 0, len(s.base)+len(s.delta))
	for id := range s.base {
		ids = append(ids, id)
	}
	if useDelta {
		for id := range s.delta {
			if _, exists := s.base[id]; !exists {
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// The fold concatenates the uppercase hex renderings of the running
	// checksum and each wallet checksum. Deployed nodes compute the state
	// checksum this exact way, so the string round-trip stays.
	checksum := sha256.Sum256([]byte(checksumSeed))
	for _, id := range ids {
		w := s.lookup(id, useDelta)
		input := toUpperHex(checksum[:]) + toUpperHex(w.Checksum())
		checksum = sha256.Sum256([]byte(input))
	}

	if useDelta {
		s.cachedDeltaChecksum = append([]byte(nil), checksum[:]...)
	} else {
		s.cachedChecksum = append([]byte(nil), checksum[:]...)
	}

	return append([]byte(nil), checksum[:]...)
}

// TotalSupply returns the sum of every committed balance. Records in the
// delta overlay are excluded.
func (s *State) TotalSupply() amount.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := amount.Zero()
	for _, w := range s.base {
		total = total.Add(w.Balance)
	}

	return total
}

// =============================================================================

// lookup resolves a record by the overlay rule. The caller must hold the
// mutex and copy the result before releasing it.
func (s *State) lookup(id Address, fromSnapshot bool) Wallet {
	if fromSnapshot && s.delta != nil {
		if w, exists := s.delta[id]; exists {
			return w
		}
	}

	if w, exists := s.base[id]; exists {
		return w
	}

	return newWallet(id)
}

// invalidateBase drops the base checksum cache. A base write while a
// snapshot is active also changes the composed view, so the delta cache
// goes with it.
func (s *State) invalidateBase() {
	s.cachedChecksum = nil
	if s.delta != nil {
		s.cachedDeltaChecksum = nil
	}
}

// exists reports whether a record is present in either reachable layer.
func (s *State) exists(id Address, fromSnapshot bool) bool {
	if fromSnapshot && s.delta != nil {
		if _, ok := s.delta[id]; ok {
			return true
		}
	}

	_, ok := s.base[id]
	return ok
}

// toUpperHex renders the bytes as an uppercase hex string.
func toUpperHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
