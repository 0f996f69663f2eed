package miner

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screa/evm-vanity-miner/internal/config"
	"github.com/screa/evm-vanity-miner/internal/crypto"
	"github.com/screa/evm-vanity-miner/internal/logger"
	"github.com/screa/evm-vanity-miner/internal/shutdown"
	"github.com/screa/evm-vanity-miner/pkg/pattern"
	"github.com/screa/evm-vanity-miner/pkg/types"
	"github.com/screa/evm-vanity-miner/pkg/worker"
)

// State is the lifecycle stage of a search
type State int32

const (
	Initializing State = iota
	Running
	Terminating
	Done
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Miner coordinates one search: it owns the shared stop flag, the attempt
// counter and the result cell, and runs the workers and the reporter.
type Miner struct {
	config   *config.Config
	logger   *logger.Logger
	spec     *pattern.Spec
	rand     io.Reader
	interval time.Duration

	stop     atomic.Bool
	attempts atomic.Uint64
	state    atomic.Int32
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	started time.Time
	result  *types.Result
	err     error
}

// NewMiner validates the configuration and creates a miner instance
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := cfg.PatternSpec()
	if err != nil {
		return nil, err
	}

	return &Miner{
		config:   cfg,
		logger:   log,
		spec:     spec,
		rand:     rand.Reader,
		interval: time.Duration(cfg.LogInterval) * time.Second,
		done:     make(chan struct{}),
	}, nil
}

// Spec returns the compiled pattern the miner searches for
func (m *Miner) Spec() *pattern.Spec {
	return m.spec
}

// Run installs the interrupt handler and mines until a match, an interrupt
// or a fatal error. A nil result with a nil error means the user stopped it.
func (m *Miner) Run() (*types.Result, error) {
	cleanup := shutdown.Install(m.logger, m.Stop)
	defer cleanup()
	return m.Mine()
}

// Mine starts the mining process and blocks until every worker and the
// reporter have returned. A Miner mines once.
func (m *Miner) Mine() (*types.Result, error) {
	if !m.state.CompareAndSwap(int32(Initializing), int32(Running)) {
		return nil, fmt.Errorf("miner already %s", m.State())
	}

	// One deriver per worker, built before anything is spawned
	workers := make([]*worker.Worker, m.config.Workers)
	for i := range workers {
		d, err := crypto.NewDeriver(m.config.Engine)
		if err != nil {
			m.state.Store(int32(Done))
			return nil, err
		}
		workers[i] = worker.NewWorker(i, m.spec, d, m.rand, m)
	}

	m.mu.Lock()
	m.started = time.Now()
	started := m.started
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker.Worker) {
			defer wg.Done()
			w.Run()
		}(w)
	}

	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		newReporter(m.logger, m.interval, started).run(m.done, m.attempts.Load)
	}()

	wg.Wait()
	// Workers only return once stop is set, this is a no-op unless all of them failed
	m.Stop()
	<-reporterDone
	m.state.Store(int32(Done))

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		m.result.Attempts = m.attempts.Load()
		m.result.Duration = time.Since(started)
	}
	return m.result, nil
}

// Stop stops the mining process. Safe to call any number of times from any goroutine.
func (m *Miner) Stop() {
	m.stop.Store(true)
	m.state.CompareAndSwap(int32(Running), int32(Terminating))
	m.once.Do(func() { close(m.done) })
}

// Stopped reports whether the search is over
func (m *Miner) Stopped() bool {
	return m.stop.Load()
}

// AddAttempts publishes a batch of worker attempts
func (m *Miner) AddAttempts(n uint64) {
	m.attempts.Add(n)
}

// Claim stores r as the result if no result exists and the search was not
// stopped yet. The result is written before stop is set.
func (m *Miner) Claim(r *types.Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result != nil || m.stop.Load() {
		return false
	}
	m.result = r
	m.Stop()
	return true
}

// Fail records the first fatal error and stops the search
func (m *Miner) Fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
	m.Stop()
}

// State returns the current lifecycle stage
func (m *Miner) State() State {
	return State(m.state.Load())
}

// Stats returns the current attempt count and elapsed time
func (m *Miner) Stats() types.Stats {
	s := types.Stats{Attempts: m.attempts.Load()}
	m.mu.Lock()
	if !m.started.IsZero() {
		s.Elapsed = time.Since(m.started)
	}
	m.mu.Unlock()
	return s
}
