// Command node runs the telemetry node on a host. The deployment profile is
// compiled in: build with -tags temperature for the temperature variant.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/gotelem/pkg/config"
	"github.com/itohio/gotelem/pkg/fault"
	"github.com/itohio/gotelem/pkg/logging"
	"github.com/itohio/gotelem/pkg/node"
	"github.com/itohio/gotelem/pkg/sim"
)

func main() {
	cfg, err := config.Parse(profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid built-in profile: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, os.Stderr, "gotelem")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("node stopped", "error", err)
		os.Exit(1)
	}
}

// run opens the configured backends and boots the node. It returns once ctx
// is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}

	hw, closeHW, err := openHardware(ctx, cfg, logger)
	if err != nil {
		// No radio to boot with: blink the status line like any other
		// bring-up failure.
		h := fault.Handler{
			Indicator: sim.NewPin("status", logger),
			Interval:  cfg.Fault.Interval,
			Logger:    logger,
		}
		return h.Halt(ctx, err)
	}
	defer closeHW()

	logger.Info("booting",
		"variant", cfg.Variant,
		"backend", cfg.Backend.Kind,
		"frequency_hz", cfg.Radio.FrequencyHz,
		"sf", cfg.Radio.SpreadingFactor,
	)

	return node.Boot(ctx, hw, node.Options{
		Radio:         cfg.RadioSettings(),
		Strategy:      strategy,
		SettleDelay:   cfg.Node.SettleDelay,
		FaultInterval: cfg.Fault.Interval,
		Logger:        logger,
	})
}
