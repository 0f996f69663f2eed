package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/screa/evm-vanity-miner/internal/logger"
)

// Install registers an interrupt handler. On the first SIGINT or SIGTERM it
// logs a notice and calls stop. The handler then unregisters itself so a
// second signal gets the default behaviour and kills the process.
//
// The returned function removes the handler if no signal arrived.
func Install(log *logger.Logger, stop func()) (cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	var once sync.Once

	go func() {
		select {
		case sig := <-sigChan:
			signal.Stop(sigChan)
			log.Warnf("Received %v, shutting down... (send again to force exit)", sig)
			stop()
		case <-quit:
		}
	}()

	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(quit)
		})
	}
}
