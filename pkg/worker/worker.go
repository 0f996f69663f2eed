package worker

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/screa/evm-vanity-miner/internal/crypto"
	"github.com/screa/evm-vanity-miner/pkg/pattern"
	"github.com/screa/evm-vanity-miner/pkg/types"
)

// BatchSize is how many attempts a worker counts locally before publishing
// them to the shared counter
const BatchSize = 1000

// Shared is the state a worker cooperates through. The coordinator owns it.
type Shared interface {
	// Stopped reports whether the search is over, for any reason
	Stopped() bool
	// AddAttempts publishes a batch of attempts to the shared counter
	AddAttempts(n uint64)
	// Claim stores the result and stops the search. Only the first claim
	// made before stop is set succeeds.
	Claim(r *types.Result) bool
	// Fail records a fatal error and stops the search
	Fail(err error)
}

// Worker handles address generation and matching on one goroutine
type Worker struct {
	id      int
	spec    *pattern.Spec
	deriver crypto.Deriver
	rand    io.Reader
	shared  Shared

	// Pre-allocated buffers for performance
	secret [crypto.SecretLen]byte
	addr   [crypto.AddressLen]byte
	hexBuf [2 * crypto.AddressLen]byte

	pending  uint64 // not yet published
	attempts uint64 // lifetime total of this worker
}

// NewWorker creates a new worker instance. rand must be a CSPRNG.
func NewWorker(id int, spec *pattern.Spec, deriver crypto.Deriver, rand io.Reader, shared Shared) *Worker {
	return &Worker{
		id:      id,
		spec:    spec,
		deriver: deriver,
		rand:    rand,
		shared:  shared,
	}
}

// Attempts returns the number of candidates this worker fully evaluated
func (w *Worker) Attempts() uint64 {
	return w.attempts
}

// Run loops until the search stops, the worker wins, or a fatal error occurs.
// Unpublished attempts are flushed before it returns.
func (w *Worker) Run() {
	defer w.flush()

	for !w.shared.Stopped() {
		if _, err := io.ReadFull(w.rand, w.secret[:]); err != nil {
			w.shared.Fail(fmt.Errorf("worker %d: read entropy: %w", w.id, err))
			return
		}

		if err := w.deriver.DeriveAddress(&w.secret, &w.addr); err != nil {
			if errors.Is(err, crypto.ErrInvalidScalar) {
				continue
			}
			w.shared.Fail(fmt.Errorf("worker %d: derive address: %w", w.id, err))
			return
		}

		w.pending++
		w.attempts++

		hex.Encode(w.hexBuf[:], w.addr[:])
		if w.spec.MatchHex(w.hexBuf[:]) {
			w.claim()
			return
		}

		if w.pending == BatchSize {
			w.flush()
		}
	}
}

func (w *Worker) claim() {
	wallet, err := crypto.DeriveWallet(w.secret)
	if err != nil {
		w.shared.Fail(fmt.Errorf("worker %d: derive wallet: %w", w.id, err))
		return
	}
	w.shared.Claim(&types.Result{
		Wallet:         *wallet,
		WorkerID:       w.id,
		WorkerAttempts: w.attempts,
	})
}

func (w *Worker) flush() {
	if w.pending == 0 {
		return
	}
	w.shared.AddAttempts(w.pending)
	w.pending = 0
}
