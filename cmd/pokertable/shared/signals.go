package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
)

// notify returns a context cancelled by SIGINT or SIGTERM, calling report
// with the signal first.
func notify(report func(os.Signal)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		signal.Stop(sigs)
		report(sig)
		cancel()
	}()
	return ctx
}

// SetupSignalHandler is for the console commands, which log with
// charmbracelet/log.
func SetupSignalHandler(logger *log.Logger) context.Context {
	return notify(func(sig os.Signal) {
		logger.Warn("Interrupted, stopping", "signal", sig.String())
	})
}

// SetupSignalHandlerWithLogger is for the server, which logs with zerolog.
func SetupSignalHandlerWithLogger(logger zerolog.Logger) context.Context {
	return notify(func(sig os.Signal) {
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down gracefully")
	})
}
