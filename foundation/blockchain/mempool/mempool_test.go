package mempool_test

import (
	"testing"

	"github.com/ixianlabs/dlt/foundation/blockchain/mempool"
	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	fromAddr = wallet.Address("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	toAddr   = wallet.Address("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
)

func Test_PoolOrdering(t *testing.T) {
	t.Log("Given the need to validate pool selection ordering.")
	{
		mp := mempool.New()

		transfer := tx.SignedTx{Tx: tx.Tx{Type: tx.TypeTransfer, FromID: fromAddr, ToID: toAddr, Nonce: 1, TimeStamp: 100}}
		solution := tx.SignedTx{Tx: tx.Tx{Type: tx.TypePoWSolution, FromID: fromAddr, ToID: tx.BurnAddress, Data: []byte("pk||5||NONCE"), TimeStamp: 100}}
		older := tx.SignedTx{Tx: tx.Tx{Type: tx.TypeTransfer, FromID: fromAddr, ToID: toAddr, Nonce: 2, TimeStamp: 50}}

		mp.Upsert(transfer)
		mp.Upsert(solution)
		mp.Upsert(older)

		if mp.Count() != 3 {
			t.Fatalf("\t%s\tShould hold every upserted transaction: got %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould hold every upserted transaction.", success)

		picked := mp.PickBest()

		if picked[0].TimeStamp != 50 {
			t.Fatalf("\t%s\tShould order the oldest transaction first.", failed)
		}
		t.Logf("\t%s\tShould order the oldest transaction first.", success)

		if picked[1].Type != tx.TypePoWSolution {
			t.Fatalf("\t%s\tShould order solutions ahead of transfers at equal timestamps.", failed)
		}
		t.Logf("\t%s\tShould order solutions ahead of transfers at equal timestamps.", success)

		mp.Delete(older)
		if mp.Count() != 2 {
			t.Fatalf("\t%s\tShould delete a transaction: got %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould delete a transaction.", success)

		mp.Truncate()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould truncate the pool: got %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould truncate the pool.", success)
	}
}
