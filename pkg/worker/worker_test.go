package worker

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/screa/evm-vanity-miner/internal/crypto"
	"github.com/screa/evm-vanity-miner/pkg/pattern"
	"github.com/screa/evm-vanity-miner/pkg/types"
)

// fakeShared mimics the coordinator's claim rules
type fakeShared struct {
	stop     atomic.Bool
	attempts atomic.Uint64

	mu     sync.Mutex
	result *types.Result
	claims int
	err    error
}

func (s *fakeShared) Stopped() bool { return s.stop.Load() }
func (s *fakeShared) AddAttempts(n uint64) { s.attempts.Add(n) }

func (s *fakeShared) Claim(r *types.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++
	if s.result != nil || s.stop.Load() {
		return false
	}
	s.result = r
	s.stop.Store(true)
	return true
}

func (s *fakeShared) Fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.stop.Store(true)
}

// repeatReader yields the same 32-byte secret forever
type repeatReader struct {
	secret [32]byte
}

func (r *repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.secret[i%32]
	}
	return len(p), nil
}

// sequenceReader yields each secret once, then repeats the last one
type sequenceReader struct {
	secrets [][32]byte
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	s := r.secrets[0]
	if len(r.secrets) > 1 {
		r.secrets = r.secrets[1:]
	}
	return copy(p, s[:]), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy source closed") }

func newTestWorker(t *testing.T, prefix, suffix string, rand io.Reader, shared Shared) *Worker {
	t.Helper()
	spec, err := pattern.NewSpec(prefix, suffix, false)
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}
	d, err := crypto.NewDeriver(crypto.EngineDecred)
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}
	return NewWorker(7, spec, d, rand, shared)
}

func TestWorkerKnownAnswer(t *testing.T) {
	var one [32]byte
	one[31] = 1

	shared := &fakeShared{}
	w := newTestWorker(t, "7e5f", "", &repeatReader{secret: one}, shared)
	w.Run()

	if shared.result == nil {
		t.Fatal("expected the worker to claim a result")
	}
	got := shared.result.Wallet
	if got.Address != "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf" {
		t.Errorf("Address = %s", got.Address)
	}
	if got.SecretHex != "0x0000000000000000000000000000000000000000000000000000000000000001" {
		t.Errorf("SecretHex = %s", got.SecretHex)
	}
	if shared.result.WorkerID != 7 || shared.result.WorkerAttempts != 1 {
		t.Errorf("WorkerID/WorkerAttempts = %d/%d, want 7/1", shared.result.WorkerID, shared.result.WorkerAttempts)
	}
	if !shared.Stopped() {
		t.Error("winner must set stop")
	}
	if n := shared.attempts.Load(); n != 1 {
		t.Errorf("published attempts = %d, want 1 after final flush", n)
	}
}

func TestWorkerSkipsInvalidScalar(t *testing.T) {
	var zero, one [32]byte
	one[31] = 1

	shared := &fakeShared{}
	w := newTestWorker(t, "", "5bdf", &sequenceReader{secrets: [][32]byte{zero, zero, one}}, shared)
	w.Run()

	if shared.err != nil {
		t.Fatalf("invalid scalar must not be fatal: %v", shared.err)
	}
	if shared.result == nil {
		t.Fatal("expected a result after skipping the zero secrets")
	}
	if w.Attempts() != 1 {
		t.Errorf("Attempts() = %d, want 1 (invalid scalars are not counted)", w.Attempts())
	}
}

func TestWorkerEntropyFailureIsFatal(t *testing.T) {
	shared := &fakeShared{}
	w := newTestWorker(t, "dead", "", failingReader{}, shared)
	w.Run()

	if shared.err == nil {
		t.Fatal("expected a fatal error")
	}
	if !shared.Stopped() {
		t.Error("a fatal error must set stop")
	}
	if shared.result != nil {
		t.Error("no result expected")
	}
}

func TestWorkerLosesAfterStop(t *testing.T) {
	var one [32]byte
	one[31] = 1

	shared := &fakeShared{}
	shared.stop.Store(true)
	w := newTestWorker(t, "7e5f", "", &repeatReader{secret: one}, shared)
	w.Run()

	if shared.claims != 0 || shared.result != nil {
		t.Error("a stopped worker must not claim")
	}
}

func TestWorkerStopsAndFlushes(t *testing.T) {
	shared := &fakeShared{}
	// 40 hex chars of f is practically unreachable
	w := newTestWorker(t, "ffffffffffffffffffff", "ffffffffffffffffffff", rand.Reader, shared)

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	shared.stop.Store(true)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not observe stop")
	}

	if got := shared.attempts.Load(); got != w.Attempts() {
		t.Errorf("published %d attempts, worker evaluated %d", got, w.Attempts())
	}
	if w.Attempts() == 0 {
		t.Error("expected some attempts")
	}
}

func TestWorkerBatchesAttempts(t *testing.T) {
	shared := &fakeShared{}
	var buf bytes.Buffer
	for i := 0; i < BatchSize+10; i++ {
		var s [32]byte
		s[31] = 2
		buf.Write(s[:])
	}
	var one [32]byte
	one[31] = 1
	buf.Write(one[:])

	w := newTestWorker(t, "7e5f", "", &buf, shared)
	w.Run()

	if shared.result == nil {
		t.Fatal("expected a result")
	}
	if got := shared.attempts.Load(); got != BatchSize+11 {
		t.Errorf("published attempts = %d, want %d", got, BatchSize+11)
	}
}
