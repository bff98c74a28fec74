package fault

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the on and off time of the fault blink.
const DefaultInterval = 500 * time.Millisecond

// Indicator is the output line blinked while halted.
type Indicator interface {
	Set(high bool)
}

// Handler is the terminal state entered on an unrecoverable peripheral error.
type Handler struct {
	Indicator Indicator
	Interval  time.Duration
	// Sleep waits for d. Defaults to a context-aware timer.
	Sleep  func(ctx context.Context, d time.Duration)
	Logger *slog.Logger
}

// Halt logs cause and blinks the indicator forever. Nothing is retried and
// no state survives. It returns only when ctx is cancelled, which happens on
// host builds at shutdown and never on the board.
func (h Handler) Halt(ctx context.Context, cause error) error {
	if h.Interval <= 0 {
		h.Interval = DefaultInterval
	}
	if h.Sleep == nil {
		h.Sleep = sleep
	}
	if h.Logger == nil {
		h.Logger = slog.Default()
	}

	h.Logger.Error("fatal peripheral error, halting", "error", cause)

	for {
		h.Indicator.Set(true)
		h.Sleep(ctx, h.Interval)
		h.Indicator.Set(false)
		h.Sleep(ctx, h.Interval)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
