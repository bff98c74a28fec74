package radio

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// MaxPacketSize is the largest payload a Session will transmit.
	MaxPacketSize = 64
	// MaxReceiveSize bounds how much of an inbound packet is read.
	MaxReceiveSize = 32
	// DefaultFrequency is the US 915 MHz ISM band centre.
	DefaultFrequency uint32 = 915000000
)

// State of the session's peripheral.
type State int

const (
	Idle State = iota
	Transmitting
	Receiving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Transmitting:
		return "transmitting"
	case Receiving:
		return "receiving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the physical-layer settings applied once at startup.
type Config struct {
	FrequencyHz     uint32
	SpreadingFactor uint8
	CodingRate      uint8
	BandwidthCode   uint8
}

// Packet is an inbound packet picked up by PollReceive.
type Packet struct {
	Data []byte
}

// String renders the packet for display, replacing invalid UTF-8.
func (p *Packet) String() string {
	if utf8.Valid(p.Data) {
		return string(p.Data)
	}
	return strings.ToValidUTF8(string(p.Data), "�")
}

// Session owns a configured transceiver for the lifetime of the process.
type Session struct {
	radio  Transceiver
	cfg    Config
	state  State
	logger *slog.Logger
	rxBuf  [MaxReceiveSize]byte
}

// Configure puts the transceiver in standby and applies frequency,
// spreading factor, coding rate and bandwidth in that order.
// Any rejected step fails with a *ConfigError.
func Configure(t Transceiver, cfg Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	steps := []struct {
		name  string
		apply func() error
	}{
		{"standby", t.Standby},
		{"frequency", func() error { return t.SetFrequency(cfg.FrequencyHz) }},
		{"spreading factor", func() error { return t.SetSpreadingFactor(cfg.SpreadingFactor) }},
		{"coding rate", func() error { return t.SetCodingRate(cfg.CodingRate) }},
		{"bandwidth", func() error { return t.SetBandwidth(cfg.BandwidthCode) }},
	}
	for _, step := range steps {
		if err := step.apply(); err != nil {
			return nil, &ConfigError{Step: step.name, Err: err}
		}
	}

	logger.Info("radio configured",
		"frequency_hz", cfg.FrequencyHz,
		"spreading_factor", cfg.SpreadingFactor,
		"coding_rate", cfg.CodingRate,
		"bandwidth_code", cfg.BandwidthCode,
	)

	return &Session{
		radio:  t,
		cfg:    cfg,
		state:  Idle,
		logger: logger,
	}, nil
}

// Config returns the settings the session was configured with.
func (s *Session) Config() Config {
	return s.cfg
}

// State returns the current peripheral state.
func (s *Session) State() State {
	return s.state
}

// Send transmits payload as a single packet, blocking until the transceiver
// reports completion.
func (s *Session) Send(payload []byte) error {
	if len(payload) > MaxPacketSize {
		s.logger.Warn("send rejected", "len", len(payload), "max", MaxPacketSize)
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPacketSize)
	}

	s.state = Transmitting
	err := s.radio.Send(payload)
	s.state = Idle

	if err != nil {
		s.logger.Warn("send failed", "len", len(payload), "error", err)
		return fmt.Errorf("%w: %w", ErrTransmitFailed, err)
	}
	s.logger.Info("sent", "len", len(payload), "payload", string(payload))
	return nil
}

// PollReceive returns a pending inbound packet, or nil when there is none.
// It never waits for a packet to arrive.
func (s *Session) PollReceive() (*Packet, error) {
	n, err := s.radio.ReceivePending()
	if err != nil {
		s.logger.Warn("receive poll failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReceiveFailed, err)
	}
	if n == 0 {
		s.logger.Debug("no packet pending")
		return nil, nil
	}

	s.logger.Info("packet pending", "len", n)

	s.state = Receiving
	read, err := s.radio.Receive(s.rxBuf[:])
	s.state = Idle
	if err != nil {
		s.logger.Warn("receive failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrReceiveFailed, err)
	}
	if read > MaxReceiveSize {
		read = MaxReceiveSize
	}

	pkt := &Packet{Data: append([]byte(nil), s.rxBuf[:read]...)}
	s.logger.Info("received", "len", read, "data", pkt.String())
	return pkt, nil
}

// Register reads a transceiver register for diagnostics.
func (s *Session) Register(addr uint8) (uint8, error) {
	v, err := s.radio.ReadRegister(addr)
	if err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", addr, err)
	}
	return v, nil
}
