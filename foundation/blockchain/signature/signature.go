// Package signature implements the recoverable ECDSA signing used for
// ledger transactions. Signatures travel as three values so the signer's
// address can be recovered from the signed value itself; nothing on the
// wire carries the public key.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ixianID offsets the recovery id so signatures produced for this ledger
// can't be replayed on another chain. Ethereum and Bitcoin do the same
// with the value 27.
const ixianID = 31

// ledgerStamp is folded into every hash that gets signed.
var ledgerStamp = []byte("\x19Ixian Signed Message:\n32")

// =============================================================================

// Sig is a ledger signature in [R|S|V] form. It embeds into signed
// transactions so the wire form carries the three values directly.
type Sig struct {
	V *big.Int `json:"v"` // Recovery identifier, 0 or 1 offset by ixianID.
	R *big.Int `json:"r"` // First coordinate of the ECDSA signature.
	S *big.Int `json:"s"` // Second coordinate of the ECDSA signature.
}

// Sign produces the ledger signature of the value with the specified
// private key.
func Sign(value any, privateKey *ecdsa.PrivateKey) (Sig, error) {
	data, err := stamp(value)
	if err != nil {
		return Sig{}, err
	}

	raw, err := crypto.Sign(data, privateKey)
	if err != nil {
		return Sig{}, err
	}

	// Round trip the public key before handing the signature out.
	publicKey, err := crypto.SigToPub(data, raw)
	if err != nil {
		return Sig{}, err
	}
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, raw[:crypto.RecoveryIDOffset]) {
		return Sig{}, errors.New("produced an unverifiable signature")
	}

	sig := Sig{
		V: big.NewInt(int64(raw[64]) + ixianID),
		R: new(big.Int).SetBytes(raw[:32]),
		S: new(big.Int).SetBytes(raw[32:64]),
	}

	return sig, nil
}

// Verify checks the signature values are well formed for this ledger.
func (sig Sig) Verify() error {
	recID, err := sig.recoveryID()
	if err != nil {
		return err
	}

	if !crypto.ValidateSignatureValues(recID, sig.R, sig.S, false) {
		return errors.New("invalid signature values")
	}

	return nil
}

// RecoverAddress returns the address whose key signed the value. The
// value must be presented exactly as it was signed or a different address
// is recovered.
func (sig Sig) RecoverAddress(value any) (string, error) {
	if err := sig.Verify(); err != nil {
		return "", err
	}

	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	raw, err := sig.bytes()
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, raw)
	if err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// String renders the signature as hex, keeping the ledger recovery id. An
// unsigned value renders empty.
func (sig Sig) String() string {
	raw, err := sig.bytes()
	if err != nil {
		return ""
	}

	raw[64] += ixianID
	return hexutil.Encode(raw)
}

// =============================================================================

// Hash returns a unique identifying hash for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// =============================================================================

// stamp hashes the value with the ledger stamp folded in, so signatures
// over the result are unique to this chain.
func stamp(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return crypto.Keccak256(ledgerStamp, crypto.Keccak256(data)), nil
}

// recoveryID extracts the plain 0/1 recovery id, rejecting values that
// were not produced for this ledger.
func (sig Sig) recoveryID() (byte, error) {
	if sig.V == nil || sig.R == nil || sig.S == nil {
		return 0, errors.New("missing signature values")
	}

	recID := new(big.Int).Sub(sig.V, big.NewInt(ixianID))
	if !recID.IsUint64() || recID.Uint64() > 1 {
		return 0, errors.New("invalid recovery id")
	}

	return byte(recID.Uint64()), nil
}

// bytes reassembles the raw 65 byte [R || S || V] signature with the
// plain recovery id.
func (sig Sig) bytes() ([]byte, error) {
	recID, err := sig.recoveryID()
	if err != nil {
		return nil, err
	}

	raw := make([]byte, crypto.SignatureLength)
	sig.R.FillBytes(raw[:32])
	sig.S.FillBytes(raw[32:64])
	raw[64] = recID

	return raw, nil
}
