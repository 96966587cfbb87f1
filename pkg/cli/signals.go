package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// shutdownSignals stop the proxy.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// exit is replaced in tests.
var exit = os.Exit

// SetupSignalHandler returns a context canceled on the first SIGINT or
// SIGTERM. A second signal exits the process with ExitError. The returned
// stop function releases the signal handler.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, shutdownSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("shutdown signal received", "signal", sig.String())
			cancel()
		case <-done:
			return
		}
		select {
		case sig := <-sigChan:
			logger.Warn("second signal received, exiting", "signal", sig.String())
			exit(ExitError)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}
