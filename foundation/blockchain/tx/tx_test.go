package tx_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/amount"
	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const toAddr = wallet.Address("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")

// =============================================================================

func Test_SignAndValidate(t *testing.T) {
	t.Log("Given the need to validate transaction signing.")
	{
		pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the private key: %v", failed, err)
		}
		from := wallet.PublicKeyToAddress(pk.PublicKey)

		value, _ := amount.Parse("12.5")
		tran, err := tx.New(1, from, toAddr, value, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a transaction.", success)

		signedTx, err := tran.Sign(pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign the transaction.", success)

		if err := signedTx.Validate(); err != nil {
			t.Fatalf("\t%s\tShould be able to validate the signature: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate the signature.", success)

		recovered, err := signedTx.FromAddress()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to recover the signer: %v", failed, err)
		}
		if recovered != from {
			t.Fatalf("\t%s\tShould recover the signing address: got %s, exp %s", failed, recovered, from)
		}
		t.Logf("\t%s\tShould recover the signing address.", success)

		// A tampered from address must not validate.
		signedTx.FromID = toAddr
		if err := signedTx.Validate(); err == nil {
			t.Fatalf("\t%s\tShould reject a tampered from address.", failed)
		}
		t.Logf("\t%s\tShould reject a tampered from address.", success)
	}
}

func Test_PoWSolutionPayload(t *testing.T) {
	t.Log("Given the need to validate the pow solution payload encoding.")
	{
		pk, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}
		solver := wallet.PublicKeyToAddress(pk.PublicKey)
		publicKey := crypto.FromECDSAPub(&pk.PublicKey)

		const nonce = "7Y2Y2PRF1QRGW7F1MGNK4RSTIXU9DOKSYPEE9G8SPZ2VEHIQGK9WOQMRJRUGBG6V02YZ3AHLPAX4MQYAKO5S69SIN5MODT98O0HR6Q2GIFFAK50OT1Q1IJ0M1AVXRM6P"

		tran, err := tx.NewPoWSolution(solver, publicKey, 90, nonce)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a solution: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a solution.", success)

		if tran.Type != tx.TypePoWSolution || tran.ToID != tx.BurnAddress || !tran.Amount.IsZero() {
			t.Fatalf("\t%s\tShould address a zero amount to the burn address.", failed)
		}
		t.Logf("\t%s\tShould address a zero amount to the burn address.", success)

		parts := strings.Split(string(tran.Data), "||")
		if len(parts) != 3 {
			t.Fatalf("\t%s\tShould delimit the payload with ||: got %d fields", failed, len(parts))
		}
		t.Logf("\t%s\tShould delimit the payload with ||.", success)

		if got, _ := strconv.ParseUint(parts[1], 10, 64); got != 90 {
			t.Fatalf("\t%s\tShould carry the block number: got %s", failed, parts[1])
		}
		t.Logf("\t%s\tShould carry the block number.", success)

		sol, err := tx.ParsePoWSolution(tran.Data)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse the payload: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to parse the payload.", success)

		if sol.BlockNum != 90 || sol.Nonce != nonce || len(sol.PublicKey) != len(publicKey) {
			t.Fatalf("\t%s\tShould round trip every field.", failed)
		}
		t.Logf("\t%s\tShould round trip every field.", success)

		if _, err := tx.ParsePoWSolution([]byte("just||two")); err == nil {
			t.Fatalf("\t%s\tShould reject a malformed payload.", failed)
		}
		t.Logf("\t%s\tShould reject a malformed payload.", success)
	}
}
