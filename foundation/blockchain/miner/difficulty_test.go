package miner_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ixianlabs/dlt/foundation/blockchain/miner"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_ValidateHash(t *testing.T) {
	type table struct {
		name       string
		hash       string
		difficulty uint64
		valid      bool
	}

	zeros := strings.Repeat("00", 30)

	tt := []table{
		{name: "d14-inside-mask", hash: "0004" + zeros, difficulty: 14, valid: false},
		{name: "d14-below-mask", hash: "0003" + zeros, difficulty: 14, valid: true},
		{name: "d14-second-byte-low", hash: "0002" + zeros, difficulty: 14, valid: true},
		{name: "d14-clean", hash: "0000" + zeros, difficulty: 14, valid: true},
		{name: "d16-boundary", hash: "0001" + zeros, difficulty: 16, valid: false},
		{name: "d256-all-zero", hash: strings.Repeat("00", 32), difficulty: 256, valid: true},
		{name: "d256-one-bit", hash: strings.Repeat("00", 31) + "01", difficulty: 256, valid: false},
		{name: "clamp-low", hash: "0002" + zeros, difficulty: 1, valid: true},
		{name: "clamp-low-reject", hash: "0004" + zeros, difficulty: 1, valid: false},
		{name: "clamp-high", hash: strings.Repeat("00", 32), difficulty: 10_000, valid: true},
		{name: "short-hash", hash: "00", difficulty: 14, valid: false},
		{name: "not-hex", hash: "zz02" + zeros, difficulty: 14, valid: false},
	}

	t.Log("Given the need to validate hashes against the difficulty mask.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking hash %q at difficulty %d.", testID, tst.hash[:4], tst.difficulty)
			{
				f := func(t *testing.T) {
					got := miner.ValidateHash(tst.hash, tst.difficulty)
					if got != tst.valid {
						t.Fatalf("\t%s\tTest %d:\tShould get %v from the validation: got %v", failed, testID, tst.valid, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v from the validation.", success, testID, tst.valid)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidateHashMonotone(t *testing.T) {
	t.Log("Given the need to validate the difficulty predicate is monotone.")
	{
		// 18 leading zero bits then a one bit.
		hash := "00002" + strings.Repeat("0", 59)

		for d := uint64(14); d <= 18; d++ {
			if !miner.ValidateHash(hash, d) {
				t.Fatalf("\t%s\tShould accept at difficulty %d below the zero count.", failed, d)
			}
		}
		t.Logf("\t%s\tShould accept at every difficulty below the zero count.", success)

		for d := uint64(19); d <= 24; d++ {
			if miner.ValidateHash(hash, d) {
				t.Fatalf("\t%s\tShould reject at difficulty %d above the zero count.", failed, d)
			}
		}
		t.Logf("\t%s\tShould reject at every difficulty above the zero count.", success)
	}
}

func Test_PowHash(t *testing.T) {
	t.Log("Given the need to validate the Argon2id puzzle hash.")
	{
		checksum := []byte{0xAB, 0xCD}
		const addr = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
		const nonce = "7Y2Y2PRF1QRGW7F1MGNK4RSTIXU9DOKSYPEE9G8SPZ2VEHIQGK9WOQMRJRUGBG6V02YZ3AHLPAX4MQYAKO5S69SIN5MODT98O0HR6Q2GIFFAK50OT1Q1IJ0M1AVXRM6P"

		h1 := miner.PowHash(checksum, addr, nonce)
		h2 := miner.PowHash(checksum, addr, nonce)

		if h1 != h2 {
			t.Fatalf("\t%s\tShould be deterministic for identical inputs.", failed)
		}
		t.Logf("\t%s\tShould be deterministic for identical inputs.", success)

		if len(h1) != 64 {
			t.Fatalf("\t%s\tShould render 32 bytes as 64 hex characters: got %d", failed, len(h1))
		}
		t.Logf("\t%s\tShould render 32 bytes as 64 hex characters.", success)

		if h1 != strings.ToUpper(h1) {
			t.Fatalf("\t%s\tShould render the hash in uppercase hex.", failed)
		}
		t.Logf("\t%s\tShould render the hash in uppercase hex.", success)

		if _, err := hex.DecodeString(h1); err != nil {
			t.Fatalf("\t%s\tShould produce decodable hex: %v", failed, err)
		}
		t.Logf("\t%s\tShould produce decodable hex.", success)

		if h3 := miner.PowHash(checksum, addr, nonce[:127]+"A"); h3 == h1 {
			t.Fatalf("\t%s\tShould change with the nonce.", failed)
		}
		t.Logf("\t%s\tShould change with the nonce.", success)
	}
}
