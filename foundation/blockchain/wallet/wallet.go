// Package wallet maintains the in-memory wallet state for the ledger. The
// state is the authoritative view of balances and produces the checksum that
// binds all replicas to the same view.
package wallet

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
)

// Address represents a wallet identifier. Addresses are hex encoded, fixed
// width, and ordered by plain byte comparison.
type Address string

// ToAddress converts a hex-encoded string to an address and validates the
// hex-encoded string is formatted correctly.
func ToAddress(hex string) (Address, error) {
	a := Address(hex)
	if !a.IsAddress() {
		return "", errors.New("invalid address format")
	}

	return a, nil
}

// PublicKeyToAddress converts the public key to an address value.
func PublicKeyToAddress(pk ecdsa.PublicKey) Address {
	return Address(crypto.PubkeyToAddress(pk).String())
}

// IsAddress verifies whether the underlying data represents a valid
// hex-encoded address.
func (a Address) IsAddress() bool {
	const addressLength = 20

	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*addressLength && isHex(a)
}

// =============================================================================

// Wallet represents a single account record held by the wallet state.
type Wallet struct {
	ID      Address       `json:"id"`
	Balance amount.Amount `json:"balance"`
	Nonce   uint64        `json:"nonce"`
	Data    []byte        `json:"data,omitempty"`
}

// newWallet constructs a zero-initialized record for the specified address.
func newWallet(id Address) Wallet {
	return Wallet{
		ID:      id,
		Balance: amount.Zero(),
	}
}

// Copy returns a wallet that shares no mutable state with the receiver.
func (w Wallet) Copy() Wallet {
	cp := w
	cp.Balance = w.Balance.Copy()
	if w.Data != nil {
		cp.Data = make([]byte, len(w.Data))
		copy(cp.Data, w.Data)
	}
	return cp
}

// Checksum returns the deterministic checksum over the serialized fields of
// the record. The serialization is fixed: address, balance and nonce in
// their string forms followed by the raw data bytes.
func (w Wallet) Checksum() []byte {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%s:%d:", w.ID, w.Balance, w.Nonce)
	h.Write(w.Data)
	return h.Sum(nil)
}

// =============================================================================

// has0xPrefix validates the address starts with a 0x.
func has0xPrefix(a Address) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is a valid hexadecimal character.
func isHex(a Address) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
