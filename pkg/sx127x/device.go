package sx127x

import (
	"errors"
	"fmt"

	"github.com/itohio/gotelem/pkg/radio"
)

var (
	// ErrInvalidParameter is returned for coding rate or bandwidth codes the chip does not support.
	ErrInvalidParameter = errors.New("invalid radio parameter")
	// ErrUnknownChip is returned when RegVersion does not identify an SX127x.
	ErrUnknownChip = errors.New("unknown chip version")
	// ErrPacketTooLarge is returned for packets that do not fit the TX half of the FIFO.
	ErrPacketTooLarge = errors.New("packet does not fit FIFO")
)

// Bus gives register access to the chip.
type Bus interface {
	ReadRegister(addr uint8) (uint8, error)
	WriteRegister(addr, value uint8) error
}

// Device drives an SX1276/RFM95W in LoRa mode.
type Device struct {
	bus       Bus
	listening bool
}

var (
	_ radio.Transceiver = (*Device)(nil)
	_ radio.Listener    = (*Device)(nil)
)

// New creates a Device on the given bus. Call Init before use.
func New(bus Bus) *Device {
	return &Device{bus: bus}
}

// Init switches the chip to LoRa mode, tunes it to frequency and leaves it in standby.
func (d *Device) Init(frequency uint32) error {
	version, err := d.bus.ReadRegister(RegVersion)
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != chipVersion {
		return fmt.Errorf("%w: 0x%02X", ErrUnknownChip, version)
	}

	if err := d.Sleep(); err != nil {
		return err
	}

	// LoRa mode can only be selected while asleep.
	if err := d.update(RegOpMode, 0xFF, longRangeMode); err != nil {
		return err
	}
	if frequency > highBandHz {
		if err := d.update(RegOpMode, ^lowFreqModeOn, 0); err != nil {
			return err
		}
	}

	if err := d.SetFrequency(frequency); err != nil {
		return err
	}

	writes := []struct{ addr, value uint8 }{
		{RegFifoTxBaseAddr, txBaseAddr},
		{RegFifoRxBaseAddr, rxBaseAddr},
	}
	for _, w := range writes {
		if err := d.bus.WriteRegister(w.addr, w.value); err != nil {
			return err
		}
	}
	if err := d.update(RegLna, 0xFF, lnaBoostHF); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegModemConfig3, agcAutoOn); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegPaConfig, paRFO14dBm); err != nil {
		return err
	}

	return d.Standby()
}

// Sleep puts the chip in sleep mode.
func (d *Device) Sleep() error {
	d.listening = false
	return d.setMode(ModeSleep)
}

// Standby puts the chip in standby mode.
func (d *Device) Standby() error {
	d.listening = false
	return d.setMode(ModeStandby)
}

// ReceiveMode opens a continuous receive window with an explicit header.
func (d *Device) ReceiveMode() error {
	if err := d.update(RegModemConfig1, ^implicitHdrOn, 0); err != nil {
		return err
	}
	if err := d.setMode(ModeRxCont); err != nil {
		return err
	}
	d.listening = true
	return nil
}

// SetFrequency programs the carrier frequency: Frf = f * 2^19 / Fxosc.
func (d *Device) SetFrequency(hz uint32) error {
	frf := FrequencyRegister(hz)
	for i, addr := range []uint8{RegFrfMsb, RegFrfMid, RegFrfLsb} {
		if err := d.bus.WriteRegister(addr, uint8(frf>>(16-8*i))); err != nil {
			return fmt.Errorf("write frequency: %w", err)
		}
	}
	return nil
}

// FrequencyRegister returns the 24-bit Frf value for hz.
func FrequencyRegister(hz uint32) uint32 {
	return uint32(uint64(hz) << 19 / uint64(fxoscHz))
}

// SetSpreadingFactor sets SF, clamped to 6..12. SF6 needs the dedicated
// detection settings.
func (d *Device) SetSpreadingFactor(sf uint8) error {
	if sf < 6 {
		sf = 6
	} else if sf > 12 {
		sf = 12
	}

	optimize, threshold := uint8(0xC3), uint8(0x0A)
	if sf == 6 {
		optimize, threshold = 0xC5, 0x0C
	}
	if err := d.bus.WriteRegister(RegDetectOptimize, optimize); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegDetectionThresh, threshold); err != nil {
		return err
	}

	return d.update(RegModemConfig2, 0x0F, sf<<4)
}

// SpreadingFactor reads back the configured SF.
func (d *Device) SpreadingFactor() (uint8, error) {
	v, err := d.bus.ReadRegister(RegModemConfig2)
	return v >> 4, err
}

// SetCodingRate sets the coding rate (1..4 for 4/5..4/8).
func (d *Device) SetCodingRate(cr uint8) error {
	if cr < CodingRate4_5 || cr > CodingRate4_8 {
		return fmt.Errorf("%w: coding rate %d", ErrInvalidParameter, cr)
	}
	return d.update(RegModemConfig1, 0xF1, cr<<1)
}

// CodingRate reads back the configured coding rate.
func (d *Device) CodingRate() (uint8, error) {
	v, err := d.bus.ReadRegister(RegModemConfig1)
	return (v >> 1) & 0x07, err
}

// SetBandwidth sets the bandwidth code (0..9).
func (d *Device) SetBandwidth(code uint8) error {
	if code > Bandwidth500KHz {
		return fmt.Errorf("%w: bandwidth code %d", ErrInvalidParameter, code)
	}
	return d.update(RegModemConfig1, 0x0F, code<<4)
}

// Bandwidth reads back the configured bandwidth code.
func (d *Device) Bandwidth() (uint8, error) {
	v, err := d.bus.ReadRegister(RegModemConfig1)
	return v >> 4, err
}

// Send loads data into the FIFO, transmits it, and polls until TxDone.
// There is no timeout: a chip that never raises TxDone stalls the caller.
func (d *Device) Send(data []byte) error {
	if len(data) > FifoSize-int(txBaseAddr) {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(data))
	}

	if err := d.Standby(); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegIrqFlags, IrqTxDone); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegFifoAddrPtr, txBaseAddr); err != nil {
		return err
	}
	if err := d.bus.WriteRegister(RegPayloadLength, uint8(len(data))); err != nil {
		return err
	}
	for _, b := range data {
		if err := d.bus.WriteRegister(RegFifo, b); err != nil {
			return fmt.Errorf("write fifo: %w", err)
		}
	}

	if err := d.update(RegModemConfig1, ^implicitHdrOn, 0); err != nil {
		return err
	}
	if err := d.setMode(ModeTx); err != nil {
		return err
	}

	for {
		flags, err := d.bus.ReadRegister(RegIrqFlags)
		if err != nil {
			return fmt.Errorf("poll tx done: %w", err)
		}
		if flags&IrqTxDone != 0 {
			break
		}
	}
	return d.bus.WriteRegister(RegIrqFlags, IrqTxDone)
}

// ReceivePending returns the length of a cleanly received packet, or 0.
func (d *Device) ReceivePending() (int, error) {
	flags, err := d.bus.ReadRegister(RegIrqFlags)
	if err != nil {
		return 0, err
	}
	if flags&(IrqRxDone|IrqPayloadCrcError|IrqValidHeader) != IrqRxDone|IrqValidHeader {
		return 0, nil
	}
	n, err := d.bus.ReadRegister(RegRxNbBytes)
	return int(n), err
}

// Receive reads the pending packet into buf, truncating to len(buf).
// It returns 0 when no clean packet is available.
func (d *Device) Receive(buf []byte) (int, error) {
	flags, err := d.bus.ReadRegister(RegIrqFlags)
	if err != nil {
		return 0, err
	}
	if flags&IrqRxDone == 0 || flags&IrqPayloadCrcError != 0 {
		return 0, nil
	}
	if err := d.bus.WriteRegister(RegIrqFlags, flags&0xF0); err != nil {
		return 0, err
	}

	length, err := d.bus.ReadRegister(RegRxNbBytes)
	if err != nil {
		return 0, err
	}
	current, err := d.bus.ReadRegister(RegFifoRxCurrentAddr)
	if err != nil {
		return 0, err
	}
	if err := d.bus.WriteRegister(RegFifoAddrPtr, current); err != nil {
		return 0, err
	}

	wasListening := d.listening
	if err := d.Standby(); err != nil {
		return 0, err
	}

	n := min(int(length), len(buf))
	for i := 0; i < n; i++ {
		if buf[i], err = d.bus.ReadRegister(RegFifo); err != nil {
			return i, fmt.Errorf("read fifo: %w", err)
		}
	}

	if err := d.bus.WriteRegister(RegFifoAddrPtr, rxBaseAddr); err != nil {
		return n, err
	}
	if wasListening {
		return n, d.ReceiveMode()
	}
	return n, nil
}

// ReadRegister reads any register, for diagnostics.
func (d *Device) ReadRegister(addr uint8) (uint8, error) {
	return d.bus.ReadRegister(addr)
}

// Mode returns the current operating mode bits.
func (d *Device) Mode() (uint8, error) {
	v, err := d.bus.ReadRegister(RegOpMode)
	return v & modeMask, err
}

func (d *Device) setMode(mode uint8) error {
	return d.update(RegOpMode, ^modeMask, mode&modeMask)
}

// update performs a read-modify-write: reg = (reg & keep) | set.
func (d *Device) update(addr, keep, set uint8) error {
	v, err := d.bus.ReadRegister(addr)
	if err != nil {
		return fmt.Errorf("read register 0x%02X: %w", addr, err)
	}
	if err := d.bus.WriteRegister(addr, v&keep|set); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", addr, err)
	}
	return nil
}
