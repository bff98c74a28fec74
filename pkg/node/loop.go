package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/telemetry"
)

// State of the sample loop.
type State int

const (
	Idle State = iota
	Sampling
	Converting
	Formatting
	Exchanging
	Sleeping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sampling:
		return "sampling"
	case Converting:
		return "converting"
	case Formatting:
		return "formatting"
	case Exchanging:
		return "exchanging"
	case Sleeping:
		return "sleeping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// diagRegister is read and logged each iteration when the radio exposes registers.
const diagRegister uint8 = 0x01

// Stats counts loop outcomes since start.
type Stats struct {
	Iterations       int
	Sent             int
	SendFailures     int
	Received         int
	ConversionErrors int
}

// LoopOptions configures a Loop.
type LoopOptions struct {
	Strategy convert.Strategy
	// SettleDelay is waited after the indicator goes idle, before sleeping.
	SettleDelay time.Duration
	Sleep       func(ctx context.Context, d time.Duration)
	Logger      *slog.Logger
}

// Loop is the acquisition and transmission control loop.
type Loop struct {
	adc    ADC
	radio  Exchanger
	status Pin
	power  Power

	strategy convert.Strategy
	settle   time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	logger   *slog.Logger

	state State
	stats Stats
}

// NewLoop creates a loop over explicitly owned collaborators.
func NewLoop(adc ADC, r Exchanger, status Pin, power Power, opts LoopOptions) *Loop {
	if opts.Strategy == nil {
		opts.Strategy = convert.Voltage{Reference: convert.DefaultReference}
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Loop{
		adc:      adc,
		radio:    r,
		status:   status,
		power:    power,
		strategy: opts.Strategy,
		settle:   opts.SettleDelay,
		sleep:    opts.Sleep,
		logger:   opts.Logger,
		state:    Idle,
	}
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.state
}

// Stats returns counters accumulated so far.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Run repeats Step until ctx is cancelled or the ADC fails.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one iteration: busy, sample, convert, format, send, poll,
// idle, sleep. It returns an error only when no sample could be captured.
func (l *Loop) Step(ctx context.Context) error {
	l.state = Idle
	l.status.Set(StatusBusy)

	l.state = Sampling
	raw, err := l.adc.Sample(ctx)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	l.stats.Iterations++

	l.state = Converting
	reading, err := l.strategy.Convert(raw)
	if err != nil {
		l.stats.ConversionErrors++
		l.logger.Warn("conversion failed, skipping transmit", "raw", raw, "error", err)
		l.finish(ctx)
		return nil
	}

	l.state = Formatting
	payload, err := telemetry.Format(l.strategy.Label(), reading)
	if err != nil {
		l.logger.Warn("format failed, skipping transmit", "reading", reading, "error", err)
		l.finish(ctx)
		return nil
	}
	l.logger.Debug("sample", "raw", raw, "reading", reading, "payload", payload.String())

	l.state = Exchanging
	l.exchange(payload.Bytes())

	l.finish(ctx)
	return nil
}

func (l *Loop) exchange(payload []byte) {
	if d, ok := l.radio.(Diagnostics); ok {
		if v, err := d.Register(diagRegister); err == nil {
			l.logger.Debug("radio register", "addr", fmt.Sprintf("0x%02X", diagRegister), "value", fmt.Sprintf("0x%02X", v))
		}
	}

	// A failed send still counts as a completed iteration; the reading is lost.
	if err := l.radio.Send(payload); err != nil {
		l.stats.SendFailures++
	} else {
		l.stats.Sent++
	}

	pkt, err := l.radio.PollReceive()
	if err != nil || pkt == nil {
		return
	}
	l.stats.Received++
	l.logger.Info("inbound packet", "len", len(pkt.Data), "data", pkt.String())
}

func (l *Loop) finish(ctx context.Context) {
	l.status.Set(StatusIdle)
	if l.settle > 0 {
		l.sleep(ctx, l.settle)
	}

	l.state = Sleeping
	l.power.DeepSleep()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
