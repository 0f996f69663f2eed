package miner

import (
	"fmt"
	"time"

	"github.com/screa/evm-vanity-miner/internal/logger"
	"github.com/screa/evm-vanity-miner/internal/sysinfo"
)

const defaultInterval = 5 * time.Second

// reporter logs the search rate at regular intervals. It only ever writes
// its own last sample.
type reporter struct {
	logger   *logger.Logger
	interval time.Duration
	start    time.Time

	lastAttempts uint64
	lastTime     time.Time
}

func newReporter(log *logger.Logger, interval time.Duration, start time.Time) *reporter {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &reporter{
		logger:   log,
		interval: interval,
		start:    start,
		lastTime: start,
	}
}

// run samples attempts on every tick until done is closed
func (r *reporter) run(done <-chan struct{}, attempts func() uint64) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if line, ok := r.sample(now, attempts()); ok {
				r.logger.Print(line)
			}
		case <-done:
			return
		}
	}
}

// sample computes the progress line for the current counter value.
// ok is false when nothing happened since the previous sample.
func (r *reporter) sample(now time.Time, attempts uint64) (line string, ok bool) {
	if attempts <= r.lastAttempts {
		return "", false
	}

	rate := 0.0
	if dt := now.Sub(r.lastTime).Seconds(); dt > 0 {
		rate = float64(attempts-r.lastAttempts) / dt
	}
	elapsed := now.Sub(r.start).Round(time.Second)

	r.lastAttempts = attempts
	r.lastTime = now

	line = fmt.Sprintf("Progress: %d attempts | %.0f addr/sec | elapsed %s", attempts, rate, elapsed)
	if used, found := sysinfo.MemoryUsedPercent(); found {
		line += fmt.Sprintf(" | RAM %.1f%%", used)
	}
	return line, true
}
