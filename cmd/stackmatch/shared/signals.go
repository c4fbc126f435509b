package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SetupSignalHandler creates a context that is cancelled on interrupt signals
func SetupSignalHandler() context.Context {
	return SetupSignalHandlerWithLogger(nil)
}

// SetupSignalHandlerWithLogger creates a context that is cancelled on
// interrupt signals and logs which signal arrived.
func SetupSignalHandlerWithLogger(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if logger != nil {
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
		}
		cancel()
	}()

	return ctx
}
