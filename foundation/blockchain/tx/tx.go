// Package tx defines the transactions exchanged between nodes, including
// the proof-of-work solution transactions produced by the miner.
package tx

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
	"github.com/ixianlabs/dlt/foundation/blockchain/signature"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// Set of transaction types recorded on the ledger.
const (
	TypeTransfer    = uint16(0)
	TypePoWSolution = uint16(1)
)

// BurnAddress is the well-known sink address proof-of-work solution
// transactions are addressed to.
const BurnAddress = wallet.Address("0x0000000000000000000000000000000000000000")

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Type      uint16         `json:"type"`
	Nonce     uint64         `json:"nonce"`
	FromID    wallet.Address `json:"from"`
	ToID      wallet.Address `json:"to"`
	Amount    amount.Amount  `json:"amount"`
	Data      []byte         `json:"data"`
	TimeStamp uint64         `json:"timestamp"`
}

// New constructs a new transfer transaction.
func New(nonce uint64, fromID wallet.Address, toID wallet.Address, value amount.Amount, data []byte) (Tx, error) {
	if !fromID.IsAddress() {
		return Tx{}, fmt.Errorf("from address is not properly formatted")
	}
	if !toID.IsAddress() {
		return Tx{}, fmt.Errorf("to address is not properly formatted")
	}

	tx := Tx{
		Type:      TypeTransfer,
		Nonce:     nonce,
		FromID:    fromID,
		ToID:      toID,
		Amount:    value,
		Data:      data,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}

	return tx, nil
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	sig, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:  tx,
		Sig: sig,
	}

	return signedTx, nil
}

// ID returns the unique identifier for the transaction.
func (tx Tx) ID() string {
	return signature.Hash(tx)
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how transactions
// are provided for inclusion into the ledger. The signature values embed
// directly so the wire form carries v, r and s at the top level.
type SignedTx struct {
	Tx
	signature.Sig
}

// Validate verifies the transaction has a proper signature that conforms to
// our standards, that the claimed from address signed it, and that the
// addresses are well formed.
func (tx SignedTx) Validate() error {
	if !tx.ToID.IsAddress() {
		return errors.New("invalid address for to account")
	}

	address, err := tx.Sig.RecoverAddress(tx.Tx)
	if err != nil {
		return err
	}
	if wallet.Address(address) != tx.FromID {
		return fmt.Errorf("signature address %s does not match from address %s", address, tx.FromID)
	}

	return nil
}

// FromAddress extracts the address that signed the transaction.
func (tx SignedTx) FromAddress() (wallet.Address, error) {
	address, err := tx.Sig.RecoverAddress(tx.Tx)
	return wallet.Address(address), err
}

// SignatureString returns the signature as a string.
func (tx SignedTx) SignatureString() string {
	return tx.Sig.String()
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	return fmt.Sprintf("%s:%d", tx.FromID, tx.Nonce)
}
