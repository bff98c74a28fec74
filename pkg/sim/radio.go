package sim

import (
	"errors"
	"sync"

	"github.com/itohio/gotelem/pkg/radio"
)

// ErrRadioAsleep is returned for transfers attempted before Standby.
var ErrRadioAsleep = errors.New("radio not in standby")

// Radio is an in-memory transceiver. Transmitted packets are recorded and
// inbound packets are queued with Inject.
type Radio struct {
	mu sync.Mutex

	cfg       radio.Config
	awake     bool
	listening bool
	sent      [][]byte
	inbound   [][]byte

	// FailSend makes every Send fail while set.
	FailSend bool
}

var (
	_ radio.Transceiver = (*Radio)(nil)
	_ radio.Listener    = (*Radio)(nil)
)

// NewRadio creates an in-memory transceiver.
func NewRadio() *Radio {
	return &Radio{}
}

func (r *Radio) Standby() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awake = true
	r.listening = false
	return nil
}

func (r *Radio) ReceiveMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = true
	return nil
}

func (r *Radio) SetFrequency(hz uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.FrequencyHz = hz
	return nil
}

func (r *Radio) SetSpreadingFactor(sf uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.SpreadingFactor = sf
	return nil
}

func (r *Radio) SetCodingRate(cr uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.CodingRate = cr
	return nil
}

func (r *Radio) SetBandwidth(code uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.BandwidthCode = code
	return nil
}

func (r *Radio) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.awake {
		return ErrRadioAsleep
	}
	if r.FailSend {
		return errors.New("simulated transmit failure")
	}
	r.sent = append(r.sent, append([]byte(nil), data...))
	return nil
}

func (r *Radio) ReceivePending() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.inbound) == 0 {
		return 0, nil
	}
	return len(r.inbound[0]), nil
}

func (r *Radio) Receive(buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.inbound) == 0 {
		return 0, nil
	}
	n := copy(buf, r.inbound[0])
	r.inbound = r.inbound[1:]
	return n, nil
}

// ReadRegister reports RegOpMode-like state at 0x01 and zero elsewhere.
func (r *Radio) ReadRegister(addr uint8) (uint8, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr != 0x01 {
		return 0, nil
	}
	mode := uint8(0x80)
	switch {
	case r.listening:
		mode |= 0x05
	case r.awake:
		mode |= 0x01
	}
	return mode, nil
}

// Inject queues an inbound packet.
func (r *Radio) Inject(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inbound = append(r.inbound, append([]byte(nil), data...))
}

// Sent returns copies of every transmitted packet.
func (r *Radio) Sent() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]byte, len(r.sent))
	for i, p := range r.sent {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// Config returns the parameters applied so far.
func (r *Radio) Config() radio.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}
