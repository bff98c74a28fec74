package sim

import (
	"log/slog"
	"sync"
)

// Pin is a digital output that logs level changes.
type Pin struct {
	name   string
	logger *slog.Logger

	mu      sync.Mutex
	level   bool
	toggles int
}

// NewPin creates a logging pin.
func NewPin(name string, logger *slog.Logger) *Pin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pin{name: name, logger: logger}
}

func (p *Pin) Set(high bool) {
	p.mu.Lock()
	if p.level != high {
		p.toggles++
	}
	p.level = high
	p.mu.Unlock()

	p.logger.Debug("pin", "name", p.name, "high", high)
}

// Level returns the current output level.
func (p *Pin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Toggles returns the number of level changes so far.
func (p *Pin) Toggles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles
}

// Power counts deep-sleep entries. On the host the next Sample call does the
// actual waiting.
type Power struct {
	mu     sync.Mutex
	sleeps int
}

func (p *Power) DeepSleep() {
	p.mu.Lock()
	p.sleeps++
	p.mu.Unlock()
}

// Sleeps returns how many times DeepSleep was entered.
func (p *Power) Sleeps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sleeps
}
