package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/fault"
	"github.com/itohio/gotelem/pkg/radio"
)

// Hardware bundles the collaborators a node owns for its whole lifetime.
type Hardware struct {
	ADC    ADC
	Radio  radio.Transceiver
	Status Pin
	// Fault is blinked after a fatal error. Defaults to Status.
	Fault Pin
	Power Power
}

// Options configures Boot.
type Options struct {
	Radio         radio.Config
	Strategy      convert.Strategy
	SettleDelay   time.Duration
	FaultInterval time.Duration
	Sleep         func(ctx context.Context, d time.Duration)
	Logger        *slog.Logger
}

// Boot brings up the peripherals and hands control to the sample loop.
// Any initialization or peripheral failure enters the fault handler instead,
// which never gives control back to the loop. Boot returns only once ctx is
// cancelled.
func Boot(ctx context.Context, hw Hardware, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if hw.Fault == nil {
		hw.Fault = hw.Status
	}

	halt := func(err error) error {
		h := fault.Handler{
			Indicator: hw.Fault,
			Interval:  opts.FaultInterval,
			Sleep:     opts.Sleep,
			Logger:    opts.Logger,
		}
		return h.Halt(ctx, err)
	}

	if err := hw.ADC.Trigger(); err != nil {
		return halt(fmt.Errorf("adc trigger: %w", err))
	}

	if bringUp, ok := hw.Radio.(Initializer); ok {
		if err := bringUp.Init(opts.Radio.FrequencyHz); err != nil {
			return halt(fmt.Errorf("radio init: %w", err))
		}
	}

	session, err := radio.Configure(hw.Radio, opts.Radio, opts.Logger)
	if err != nil {
		return halt(err)
	}

	loop := NewLoop(hw.ADC, session, hw.Status, hw.Power, LoopOptions{
		Strategy:    opts.Strategy,
		SettleDelay: opts.SettleDelay,
		Sleep:       opts.Sleep,
		Logger:      opts.Logger,
	})
	opts.Logger.Info("sample loop started", "label", loop.strategy.Label())

	err = loop.Run(ctx)
	if ctx.Err() != nil {
		stats := loop.Stats()
		opts.Logger.Info("sample loop stopped",
			"iterations", stats.Iterations,
			"sent", stats.Sent,
			"send_failures", stats.SendFailures,
			"received", stats.Received,
		)
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return halt(err)
}
