package signature_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ixianlabs/dlt/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// payload stands in for any value that gets signed on the ledger.
type payload struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// =============================================================================

func Test_SignRecover(t *testing.T) {
	t.Log("Given the need to validate signing and address recovery.")
	{
		pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the private key: %v", failed, err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey).String()

		value := payload{Name: "seal", Value: 90}

		sig, err := signature.Sign(value, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the value: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign the value.", success)

		if err := sig.Verify(); err != nil {
			t.Fatalf("\t%s\tShould produce verifiable signature values: %v", failed, err)
		}
		t.Logf("\t%s\tShould produce verifiable signature values.", success)

		recovered, err := sig.RecoverAddress(value)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to recover the signer: %v", failed, err)
		}
		if recovered != addr {
			t.Fatalf("\t%s\tShould recover the signing address: got %s, exp %s", failed, recovered, addr)
		}
		t.Logf("\t%s\tShould recover the signing address.", success)

		other, err := sig.RecoverAddress(payload{Name: "seal", Value: 91})
		if err == nil && other == addr {
			t.Fatalf("\t%s\tShould not recover the signer from a different value.", failed)
		}
		t.Logf("\t%s\tShould not recover the signer from a different value.", success)
	}
}

func Test_SigString(t *testing.T) {
	t.Log("Given the need to validate the signature rendering.")
	{
		pk, _ := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")

		sig, err := signature.Sign(payload{Name: "seal", Value: 90}, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the value: %v", failed, err)
		}

		s := sig.String()
		if !strings.HasPrefix(s, "0x") || len(s) != 2+2*crypto.SignatureLength {
			t.Fatalf("\t%s\tShould render 65 bytes of hex: got %q", failed, s)
		}
		t.Logf("\t%s\tShould render 65 bytes of hex.", success)

		if (signature.Sig{}).String() != "" {
			t.Fatalf("\t%s\tShould render an unsigned value empty.", failed)
		}
		t.Logf("\t%s\tShould render an unsigned value empty.", success)
	}
}

func Test_VerifyRejectsForeignRecoveryID(t *testing.T) {
	t.Log("Given the need to validate foreign signatures are rejected.")
	{
		pk, _ := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")

		sig, err := signature.Sign(payload{Name: "seal", Value: 90}, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the value: %v", failed, err)
		}

		// An Ethereum style recovery id of 27 does not belong to this
		// ledger.
		sig.V = big.NewInt(27)
		if err := sig.Verify(); err == nil {
			t.Fatalf("\t%s\tShould reject a recovery id from another chain.", failed)
		}
		t.Logf("\t%s\tShould reject a recovery id from another chain.", success)

		if err := (signature.Sig{}).Verify(); err == nil {
			t.Fatalf("\t%s\tShould reject missing signature values.", failed)
		}
		t.Logf("\t%s\tShould reject missing signature values.", success)
	}
}
