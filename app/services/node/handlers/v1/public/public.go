// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ixianlabs/dlt/business/web/errs"
	"github.com/ixianlabs/dlt/foundation/blockchain/state"
	"github.com/ixianlabs/dlt/foundation/blockchain/tx"
	"github.com/ixianlabs/dlt/foundation/blockchain/wallet"
	"github.com/ixianlabs/dlt/foundation/events"
	"github.com/ixianlabs/dlt/foundation/nameservice"
	"github.com/ixianlabs/dlt/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx tx.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sig:nonce", signedTx, "to", signedTx.ToID, "amount", signedTx.Amount)
	if err := h.State.SubmitTransaction(signedTx); err != nil {
		return errs.New(http.StatusBadRequest, err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// TotalSupply returns the sum of all committed balances.
func (h Handlers) TotalSupply(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Supply string `json:"supply"`
	}{
		Supply: h.State.TotalSupply().String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Accounts returns the record for the specified account with the state
// checksum, or just the checksum when no account is specified.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	ai := actInfo{
		StateChecksum: hex.EncodeToString(h.State.StateChecksum()),
		Uncommitted:   h.State.MempoolCount(),
	}

	if account != "" {
		addr, err := wallet.ToAddress(account)
		if err != nil {
			return errs.New(http.StatusBadRequest, err)
		}

		wlt := h.State.Wallet(addr)
		ai.Accounts = []info{
			{
				Account: wlt.ID,
				Name:    h.NS.Lookup(wlt.ID),
				Balance: wlt.Balance.String(),
				Nonce:   wlt.Nonce,
			},
		}
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// LatestBlock returns the current tail block.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest, err := h.State.LatestBlock()
	if err != nil {
		return errs.New(http.StatusNotFound, err)
	}

	return web.Respond(ctx, w, toBlock(latest), http.StatusOK)
}

// BlockByNumber returns the specified block if it is inside the redacted
// window.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.New(http.StatusBadRequest, err)
	}

	blk, err := h.State.GetBlock(number)
	if err != nil {
		return errs.New(http.StatusNotFound, err)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.Mempool()

	trans := make([]transaction, len(pool))
	for i, tran := range pool {
		trans[i] = transaction{
			Type:      tran.Type,
			From:      tran.FromID,
			FromName:  h.NS.Lookup(tran.FromID),
			To:        tran.ToID,
			ToName:    h.NS.Lookup(tran.ToID),
			Nonce:     tran.Nonce,
			Amount:    tran.Amount.String(),
			Data:      tran.Data,
			TimeStamp: tran.TimeStamp,
			Sig:       tran.SignatureString(),
		}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Chunks returns the committed wallet state partitioned for sync.
func (h Handlers) Chunks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	const defaultChunkSize = 1000

	chunkSize := defaultChunkSize
	if qs := r.URL.Query().Get("chunk_size"); qs != "" {
		cs, err := strconv.Atoi(qs)
		if err != nil {
			return errs.New(http.StatusBadRequest, err)
		}
		chunkSize = cs
	}

	return web.Respond(ctx, w, h.State.Chunks(chunkSize), http.StatusOK)
}
