package tx

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// powDelimiter separates the fields of a proof-of-work solution payload.
// The delimited string is a wire compatibility contract between nodes.
const powDelimiter = "||"

// =============================================================================

// NewPoWSolution constructs the zero-amount transaction carrying a
// proof-of-work solution. The payload is "pubkey||blockNum||nonce" with the
// public key hex encoded.
func NewPoWSolution(solverID wallet.Address, publicKey []byte, blockNum uint64, nonce string) (Tx, error) {
	if !solverID.IsAddress() {
		return Tx{}, fmt.Errorf("solver address is not properly formatted")
	}

	data := strings.Join([]string{
		hex.EncodeToString(publicKey),
		strconv.FormatUint(blockNum, 10),
		nonce,
	}, powDelimiter)

	tx := Tx{
		Type:      TypePoWSolution,
		FromID:    solverID,
		ToID:      BurnAddress,
		Amount:    amount.Zero(),
		Data:      []byte(data),
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}

	return tx, nil
}

// PoWSolution is the decoded payload of a proof-of-work solution
// transaction.
type PoWSolution struct {
	PublicKey []byte
	BlockNum  uint64
	Nonce     string
}

// ParsePoWSolution decodes a "pubkey||blockNum||nonce" payload.
func ParsePoWSolution(data []byte) (PoWSolution, error) {
	parts := strings.Split(string(data), powDelimiter)
	if len(parts) != 3 {
		return PoWSolution{}, fmt.Errorf("pow payload has %d fields, expected 3", len(parts))
	}

	publicKey, err := hex.DecodeString(parts[0])
	if err != nil {
		return PoWSolution{}, fmt.Errorf("pow payload public key: %w", err)
	}

	blockNum, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return PoWSolution{}, fmt.Errorf("pow payload block number: %w", err)
	}

	sol := PoWSolution{
		PublicKey: publicKey,
		BlockNum:  blockNum,
		Nonce:     parts[2],
	}

	return sol, nil
}
