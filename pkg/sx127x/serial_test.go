package sx127x

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridge emulates the USB-SPI bridge firmware on top of a fakeChip.
type bridge struct {
	chip    *fakeChip
	pending []byte
	out     bytes.Buffer
	closed  bool
}

func (b *bridge) Write(p []byte) (int, error) {
	b.pending = append(b.pending, p...)
	for len(b.pending) >= 2 {
		addr, value := b.pending[0], b.pending[1]
		b.pending = b.pending[2:]
		if addr&writeFlag != 0 {
			if err := b.chip.WriteRegister(addr&^writeFlag, value); err != nil {
				return 0, err
			}
			b.out.WriteByte(0)
			continue
		}
		v, err := b.chip.ReadRegister(addr)
		if err != nil {
			return 0, err
		}
		b.out.WriteByte(v)
	}
	return len(p), nil
}

func (b *bridge) Read(p []byte) (int, error) {
	return b.out.Read(p)
}

func (b *bridge) Close() error {
	b.closed = true
	return nil
}

func TestSerialBus(t *testing.T) {
	chip := newFakeChip()
	br := &bridge{chip: chip}
	bus := NewSerialBus(br)

	require.NoError(t, bus.WriteRegister(RegModemConfig3, agcAutoOn))
	v, err := bus.ReadRegister(RegModemConfig3)
	require.NoError(t, err)
	assert.Equal(t, agcAutoOn, v)

	require.NoError(t, bus.Close())
	assert.True(t, br.closed)
}

func TestSerialBus_DrivesDevice(t *testing.T) {
	chip := newFakeChip()
	d := New(NewSerialBus(&bridge{chip: chip}))
	require.NoError(t, d.Init(868000000))
	require.NoError(t, d.SetSpreadingFactor(9))

	sf, err := d.SpreadingFactor()
	require.NoError(t, err)
	assert.Equal(t, uint8(9), sf)
}

func TestSerialBus_ShortReply(t *testing.T) {
	// A bridge that swallows the frame and never answers.
	bus := NewSerialBus(struct {
		io.Reader
		io.Writer
	}{bytes.NewReader(nil), io.Discard})

	_, err := bus.ReadRegister(RegVersion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestOpenSerial_MissingPort(t *testing.T) {
	_, err := OpenSerial("/dev/does-not-exist-gotelem", 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open serial port")
}
