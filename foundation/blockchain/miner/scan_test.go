package miner

import (
	"strings"
	"testing"

	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
)

// markers for the internal tests.
const (
	passMark = "✓"
	failMark = "✗"
)

// fakeChain provides a canned chain view for scan tests.
type fakeChain struct {
	last   uint64
	blocks map[uint64]chain.Block
}

func (fc *fakeChain) LastBlockNum() uint64 {
	return fc.last
}

func (fc *fakeChain) GetBlock(num uint64) (chain.Block, error) {
	b, exists := fc.blocks[num]
	if !exists {
		return chain.Block{}, chain.ErrUnknownBlock
	}
	return b, nil
}

func (fc *fakeChain) Seal(num uint64, powField []byte, solverAddr string) error {
	b := fc.blocks[num]
	b.PowField = powField
	b.PowSolverAddr = solverAddr
	fc.blocks[num] = b
	return nil
}

// newFakeChain builds blocks 1..last, sealing everything except the
// specified block numbers.
func newFakeChain(last uint64, unsealed ...uint64) *fakeChain {
	fc := fakeChain{
		last:   last,
		blocks: make(map[uint64]chain.Block),
	}

	open := make(map[uint64]bool)
	for _, num := range unsealed {
		open[num] = true
	}

	for num := uint64(1); num <= last; num++ {
		b := chain.Block{Number: num, Checksum: []byte{byte(num)}, Difficulty: 18}
		if !open[num] {
			b.PowField = []byte{0x01}
		}
		fc.blocks[num] = b
	}

	return &fc
}

// =============================================================================

func Test_FindUnsealedBlock(t *testing.T) {
	t.Log("Given the need to validate the unsealed block scan.")
	{
		m := Miner{
			chain:          newFakeChain(100, 50, 90),
			redactedWindow: 50,
		}

		block, found := m.findUnsealedBlock()
		if !found {
			t.Fatalf("\t%s\tShould find an unsealed block in the window.", failMark)
		}
		t.Logf("\t%s\tShould find an unsealed block in the window.", passMark)

		if block.Number != 90 {
			t.Fatalf("\t%s\tShould pick the most recent unsealed block: got %d, exp 90", failMark, block.Number)
		}
		t.Logf("\t%s\tShould pick the most recent unsealed block.", passMark)
	}

	t.Log("Given the need to validate blocks outside the window are ignored.")
	{
		m := Miner{
			chain:          newFakeChain(100, 50),
			redactedWindow: 50,
		}

		if _, found := m.findUnsealedBlock(); found {
			t.Fatalf("\t%s\tShould not pick block 50 at the window boundary.", failMark)
		}
		t.Logf("\t%s\tShould not pick block 50 at the window boundary.", passMark)
	}

	t.Log("Given the need to validate a fully sealed tail yields no work.")
	{
		m := Miner{
			chain:          newFakeChain(100),
			redactedWindow: 50,
		}

		if _, found := m.findUnsealedBlock(); found {
			t.Fatalf("\t%s\tShould find no work on a sealed tail.", failMark)
		}
		t.Logf("\t%s\tShould find no work on a sealed tail.", passMark)
	}
}

func Test_RandomNonce(t *testing.T) {
	t.Log("Given the need to validate the nonce generator.")
	{
		rng := newNonceSource()
		nonce := randomNonce(rng)

		if len(nonce) != nonceLength {
			t.Fatalf("\t%s\tShould draw %d characters: got %d", failMark, nonceLength, len(nonce))
		}
		t.Logf("\t%s\tShould draw %d characters.", passMark, nonceLength)

		for _, c := range nonce {
			if !strings.ContainsRune(nonceAlphabet, c) {
				t.Fatalf("\t%s\tShould only draw from the alphabet: got %q", failMark, c)
			}
		}
		t.Logf("\t%s\tShould only draw from the alphabet.", passMark)

		if randomNonce(newNonceSource()) == nonce {
			t.Fatalf("\t%s\tShould not repeat across independently seeded sources.", failMark)
		}
		t.Logf("\t%s\tShould not repeat across independently seeded sources.", passMark)
	}
}

func Test_VerifyNonce(t *testing.T) {
	t.Log("Given the need to validate solution verification against the chain.")
	{
		fc := newFakeChain(100, 90)
		const addr = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
		nonce := randomNonce(newNonceSource())

		block, _ := fc.GetBlock(90)
		exp := ValidateHash(PowHash(block.Checksum, addr, nonce), block.Difficulty)

		if got := VerifyNonce(fc, nonce, 90, addr, block.Difficulty); got != exp {
			t.Fatalf("\t%s\tShould agree with the recomputed hash validation: got %v, exp %v", failMark, got, exp)
		}
		t.Logf("\t%s\tShould agree with the recomputed hash validation.", passMark)

		if VerifyNonce(fc, nonce, 101, addr, block.Difficulty) {
			t.Fatalf("\t%s\tShould reject a missing block.", failMark)
		}
		t.Logf("\t%s\tShould reject a missing block.", passMark)
	}
}
