package telemetry

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// Capacity is the size of the payload buffer in bytes.
	Capacity = 64
	// Scale is the fixed-point multiplier applied to readings (4 decimal digits).
	Scale = 10000
)

// ErrPayloadTooLarge is returned when a formatted message does not fit the buffer.
var ErrPayloadTooLarge = errors.New("payload exceeds buffer capacity")

// Payload is a fixed-capacity, human-readable telemetry message.
type Payload struct {
	buf [Capacity]byte
	n   int
}

// Format renders label followed by reading scaled to a fixed-point integer.
// The scaled value is truncated toward zero, so 1.23456 becomes 12345.
func Format(label string, reading float64) (Payload, error) {
	var p Payload

	b := append(p.buf[:0], label...)
	if len(b) > Capacity {
		return Payload{}, fmt.Errorf("%w: label is %d bytes", ErrPayloadTooLarge, len(label))
	}
	b = strconv.AppendInt(b, FixedPoint(reading), 10)
	if len(b) > Capacity {
		return Payload{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(b))
	}

	// append reallocates once the array is exhausted, so copy back.
	p.n = copy(p.buf[:], b)
	return p, nil
}

// FixedPoint scales reading by Scale and truncates toward zero.
func FixedPoint(reading float64) int64 {
	return int64(reading * Scale)
}

// Bytes returns the encoded payload. The slice aliases the payload buffer.
func (p *Payload) Bytes() []byte {
	return p.buf[:p.n]
}

// Len returns the payload length in bytes.
func (p *Payload) Len() int {
	return p.n
}

func (p *Payload) String() string {
	return string(p.buf[:p.n])
}
