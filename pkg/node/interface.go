package node

import (
	"context"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/radio"
)

// ADC is the analog input collaborator.
type ADC interface {
	// Trigger starts periodic conversions.
	Trigger() error
	// Sample blocks until a conversion completes and returns it. Each
	// completed conversion is returned exactly once.
	Sample(ctx context.Context) (convert.RawSample, error)
}

// Pin is a digital output line.
type Pin interface {
	Set(high bool)
}

// Power is the power-management collaborator.
type Power interface {
	// DeepSleep enters the deepest sleep mode; the next sample-ready
	// interrupt resumes execution.
	DeepSleep()
}

// Exchanger is the radio contract the loop relies on.
type Exchanger interface {
	Send(payload []byte) error
	PollReceive() (*radio.Packet, error)
}

// Diagnostics is optionally implemented by an Exchanger to expose registers.
type Diagnostics interface {
	Register(addr uint8) (uint8, error)
}

// Initializer is optionally implemented by a transceiver that needs bring-up
// before configuration.
type Initializer interface {
	Init(frequency uint32) error
}

// Status indicator levels.
const (
	StatusBusy = false
	StatusIdle = true
)

// Ensure Session satisfies the loop's radio contract.
var (
	_ Exchanger   = (*radio.Session)(nil)
	_ Diagnostics = (*radio.Session)(nil)
)
