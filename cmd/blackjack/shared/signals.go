package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// ShutdownSignals are the signals that stop the server and the simulator
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SetupSignalHandler returns a context cancelled by the first shutdown signal.
// The server drains in-flight requests and the simulator stops between
// rounds once it is done.
func SetupSignalHandler() context.Context {
	return notify(nil)
}

// SetupSignalHandlerWithLogger is SetupSignalHandler that also logs which
// signal ended the run.
func SetupSignalHandlerWithLogger(logger *log.Logger) context.Context {
	return notify(logger)
}

func notify(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, ShutdownSignals...)

	go func() {
		sig := <-sigChan
		signal.Stop(sigChan)
		if logger != nil {
			logger.Info("Received signal, stopping", "signal", sig.String())
		}
		cancel()
	}()

	return ctx
}
