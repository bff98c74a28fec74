package sx127x

import (
	"fmt"

	"tinygo.org/x/drivers"
)

const writeFlag uint8 = 0x80

// SPIBus accesses registers over SPI with a manually driven chip select.
// It works with machine.SPI on TinyGo targets.
type SPIBus struct {
	spi    drivers.SPI
	cs     func(active bool)
	tx, rx [2]byte
}

var _ Bus = (*SPIBus)(nil)

// NewSPIBus returns a bus on spi. chipSelect is called with true before each
// transfer and false after; pass nil if the bus handles CS itself.
func NewSPIBus(spi drivers.SPI, chipSelect func(active bool)) *SPIBus {
	if chipSelect == nil {
		chipSelect = func(bool) {}
	}
	return &SPIBus{spi: spi, cs: chipSelect}
}

func (b *SPIBus) ReadRegister(addr uint8) (uint8, error) {
	b.tx = [2]byte{addr &^ writeFlag, 0}
	if err := b.transfer(); err != nil {
		return 0, fmt.Errorf("spi read 0x%02X: %w", addr, err)
	}
	return b.rx[1], nil
}

func (b *SPIBus) WriteRegister(addr, value uint8) error {
	b.tx = [2]byte{addr | writeFlag, value}
	if err := b.transfer(); err != nil {
		return fmt.Errorf("spi write 0x%02X: %w", addr, err)
	}
	return nil
}

func (b *SPIBus) transfer() error {
	b.cs(true)
	defer b.cs(false)
	return b.spi.Tx(b.tx[:], b.rx[:])
}
