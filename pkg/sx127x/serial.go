package sx127x

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaudRate for the USB-SPI bridge.
const DefaultBaudRate = 115200

// SerialBus reaches the chip through a USB-serial to SPI bridge. Every
// register access is a two-byte frame (address with the write flag, value)
// and the bridge answers with the byte clocked back on MISO during the
// value phase, exactly as a direct SPI transfer would.
type SerialBus struct {
	rw    io.ReadWriter
	frame [2]byte
	reply [1]byte
}

var _ Bus = (*SerialBus)(nil)

// NewSerialBus wraps an already open stream.
func NewSerialBus(rw io.ReadWriter) *SerialBus {
	return &SerialBus{rw: rw}
}

// OpenSerial opens the bridge on the named serial port.
func OpenSerial(port string, baudRate int) (*SerialBus, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return NewSerialBus(p), nil
}

// Close closes the underlying port if it can be closed.
func (b *SerialBus) Close() error {
	if c, ok := b.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *SerialBus) ReadRegister(addr uint8) (uint8, error) {
	if err := b.exchange(addr&^writeFlag, 0); err != nil {
		return 0, fmt.Errorf("bridge read 0x%02X: %w", addr, err)
	}
	return b.reply[0], nil
}

func (b *SerialBus) WriteRegister(addr, value uint8) error {
	if err := b.exchange(addr|writeFlag, value); err != nil {
		return fmt.Errorf("bridge write 0x%02X: %w", addr, err)
	}
	return nil
}

func (b *SerialBus) exchange(addr, value uint8) error {
	b.frame = [2]byte{addr, value}
	if _, err := b.rw.Write(b.frame[:]); err != nil {
		return err
	}
	_, err := io.ReadFull(b.rw, b.reply[:])
	return err
}

// Ports lists serial ports a bridge could be attached to.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
