package chain_test

import (
	"errors"
	"testing"

	"github.com/ixianlabs/dlt/foundation/blockchain/chain"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func addBlocks(t *testing.T, c *chain.Chain, count uint64) {
	t.Helper()

	for num := uint64(1); num <= count; num++ {
		b := chain.Block{Number: num, Difficulty: 18}
		b.Checksum = b.ComputeChecksum()
		if err := c.Add(b); err != nil {
			t.Fatalf("\t%s\tShould be able to add block %d: %v", failed, num, err)
		}
	}
}

// =============================================================================

func Test_RedactedWindow(t *testing.T) {
	t.Log("Given the need to validate pruning outside the redacted window.")
	{
		c := chain.New(10, nil)
		addBlocks(t, c, 25)

		if got := c.LastBlockNum(); got != 25 {
			t.Fatalf("\t%s\tShould report the tail block: got %d, exp 25", failed, got)
		}
		t.Logf("\t%s\tShould report the tail block.", success)

		if _, err := c.GetBlock(16); errors.Is(err, chain.ErrUnknownBlock) {
			t.Fatalf("\t%s\tShould retain a block inside the window.", failed)
		}
		t.Logf("\t%s\tShould retain a block inside the window.", success)

		if _, err := c.GetBlock(15); !errors.Is(err, chain.ErrUnknownBlock) {
			t.Fatalf("\t%s\tShould prune a block outside the window.", failed)
		}
		t.Logf("\t%s\tShould prune a block outside the window.", success)
	}
}

func Test_OutOfOrder(t *testing.T) {
	t.Log("Given the need to validate blocks append in order.")
	{
		c := chain.New(10, nil)
		addBlocks(t, c, 3)

		if err := c.Add(chain.Block{Number: 7}); err == nil {
			t.Fatalf("\t%s\tShould reject an out of order block.", failed)
		}
		t.Logf("\t%s\tShould reject an out of order block.", success)
	}
}

func Test_Seal(t *testing.T) {
	t.Log("Given the need to validate sealing blocks.")
	{
		c := chain.New(10, nil)
		addBlocks(t, c, 3)

		if err := c.Seal(2, []byte{0xAA}, "solver"); err != nil {
			t.Fatalf("\t%s\tShould be able to seal an open block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to seal an open block.", success)

		b, err := c.GetBlock(2)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the sealed block: %v", failed, err)
		}
		if !b.IsSealed() || b.PowSolverAddr != "solver" {
			t.Fatalf("\t%s\tShould carry the pow field and solver.", failed)
		}
		t.Logf("\t%s\tShould carry the pow field and solver.", success)

		if err := c.Seal(2, []byte{0xBB}, "other"); err == nil {
			t.Fatalf("\t%s\tShould reject sealing twice.", failed)
		}
		t.Logf("\t%s\tShould reject sealing twice.", success)

		if err := c.Seal(99, []byte{0xAA}, "solver"); !errors.Is(err, chain.ErrUnknownBlock) {
			t.Fatalf("\t%s\tShould reject sealing an unknown block.", failed)
		}
		t.Logf("\t%s\tShould reject sealing an unknown block.", success)
	}
}

func Test_CopySemantics(t *testing.T) {
	t.Log("Given the need to validate reads return copies.")
	{
		c := chain.New(10, nil)
		addBlocks(t, c, 1)

		b, _ := c.GetBlock(1)
		b.Checksum[0] ^= 0xFF

		fresh, _ := c.GetBlock(1)
		if fresh.Checksum[0] == b.Checksum[0] {
			t.Fatalf("\t%s\tShould not expose aliased block state.", failed)
		}
		t.Logf("\t%s\tShould not expose aliased block state.", success)
	}
}
