package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/gotelem/pkg/convert"
)

// ErrClosed is returned by Sample after Close.
var ErrClosed = errors.New("adc closed")

// ADCConfig shapes the simulated signal.
type ADCConfig struct {
	Reference  float32       // ADC reference (V)
	Start      float32       // Voltage at trigger time (V)
	Droop      float32       // Linear discharge (V per hour)
	NoiseLevel float32       // Peak noise amplitude (V)
	SampleRate time.Duration // Conversion timer period
}

// ADC simulates a timer-triggered 14-bit converter. Completed conversions
// land in a single-slot buffer; a conversion that finds the slot still
// full is dropped, as an unserviced interrupt would be.
type ADC struct {
	cfg ADCConfig

	ready   chan convert.RawSample
	done    chan struct{}
	mu      sync.Mutex
	started time.Time
	running bool
	closed  bool
	dropped int
}

// NewADC creates a simulated ADC. A nil config uses defaults.
func NewADC(cfg *ADCConfig) *ADC {
	if cfg == nil {
		cfg = &ADCConfig{
			Reference:  float32(convert.DefaultReference),
			Start:      1.2,
			Droop:      0.01,
			NoiseLevel: 0.002,
			SampleRate: time.Second / 8,
		}
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = time.Second / 8
	}
	if cfg.Reference <= 0 {
		cfg.Reference = float32(convert.DefaultReference)
	}

	return &ADC{
		cfg:   *cfg,
		ready: make(chan convert.RawSample, 1),
		done:  make(chan struct{}),
	}
}

// Trigger starts the conversion timer.
func (a *ADC) Trigger() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if a.running {
		return nil
	}
	a.running = true
	a.started = time.Now()

	go a.convert()
	return nil
}

// Sample blocks until the next completed conversion.
func (a *ADC) Sample(ctx context.Context) (convert.RawSample, error) {
	select {
	case s := <-a.ready:
		return s, nil
	case <-a.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Dropped returns how many conversions were lost to a full slot.
func (a *ADC) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Close stops the timer.
func (a *ADC) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	close(a.done)
	return nil
}

func (a *ADC) convert() {
	ticker := time.NewTicker(a.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case now := <-ticker.C:
			s := a.Level(now.Sub(a.started))
			select {
			case a.ready <- s:
			default:
				a.mu.Lock()
				a.dropped++
				a.mu.Unlock()
			}
		}
	}
}

// Level returns the raw reading the simulator produces at elapsed.
func (a *ADC) Level(elapsed time.Duration) convert.RawSample {
	t := float32(elapsed.Seconds())
	v := a.cfg.Start - a.cfg.Droop*t/3600
	v += a.cfg.NoiseLevel * 0.5 * (math32.Sin(t*7.3) + math32.Cos(t*3.1))
	return toRaw(v, a.cfg.Reference)
}

func toRaw(v, reference float32) convert.RawSample {
	r := math32.Floor(v/reference*float32(convert.MaxRaw) + 0.5)
	if r < 0 {
		return 0
	}
	if r > float32(convert.MaxRaw) {
		return convert.MaxRaw
	}
	return convert.RawSample(r)
}
