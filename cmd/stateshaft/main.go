// Command stateshaft validates, describes and interactively walks YAML
// state machine definitions.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amp-labs/stateshaft/logger"
	"github.com/amp-labs/stateshaft/telemetry"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := logger.ConfigureLogging(ctx, "stateshaft", logger.WithOutput(os.Stderr)); err != nil {
		slog.Error("failed to configure logging", "error", err)

		return 1
	}

	telemetryConfig, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load telemetry config", "error", err)

		return 1
	}

	if err := telemetry.Initialize(ctx, telemetryConfig); err != nil {
		slog.WarnContext(ctx, "telemetry disabled", "error", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(ctx, "failed to flush traces", "error", err)
		}
	}()

	if err := newRootCmd(os.Stdout, os.Stderr, terminalPrompter()).ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}
