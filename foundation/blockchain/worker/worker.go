// Package worker implements the background block production for the node.
package worker

import (
	"sync"
	"time"

	"github.com/ixianlabs/dlt/foundation/blockchain/state"
)

// produceInterval represents the interval at which a new block is cut even
// when no transaction signal arrives.
const produceInterval = 30 * time.Second

// =============================================================================

// Worker manages the block production workflow for the node.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	produceBlock chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up the background processes.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:        st,
		ticker:       time.NewTicker(produceInterval),
		shut:         make(chan struct{}),
		produceBlock: make(chan bool, 1),
		evHandler:    evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	operations := []func(){
		w.produceOperations,
	}

	g := len(operations)
	w.wg.Add(g)

	// Don't return until we know the G's are up and running.
	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: Shutdown: started")
	defer w.evHandler("worker: Shutdown: completed")

	w.ticker.Stop()
	close(w.shut)
	w.wg.Wait()
}

// SignalProduceBlock signals that a block should be produced. If a signal
// is already pending the call is a no-op since a block will be produced.
func (w *Worker) SignalProduceBlock() {
	select {
	case w.produceBlock <- true:
	default:
	}
}

// =============================================================================

// produceOperations cuts a new block on a signal or at the production
// interval.
func (w *Worker) produceOperations() {
	w.evHandler("worker: produceOperations: G started")
	defer w.evHandler("worker: produceOperations: G completed")

	for {
		select {
		case <-w.produceBlock:
			w.runProduceBlock()
		case <-w.ticker.C:
			w.runProduceBlock()
		case <-w.shut:
			w.evHandler("worker: produceOperations: received shut signal")
			return
		}
	}
}

// runProduceBlock performs one block production pass.
func (w *Worker) runProduceBlock() {
	if !w.state.Operating() {
		return
	}

	block, err := w.state.ProduceBlock()
	if err != nil {
		w.evHandler("worker: runProduceBlock: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runProduceBlock: produced block[%d]", block.Number)
}
