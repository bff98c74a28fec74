package sx127x

import "errors"

// fakeChip emulates enough of the SX1276 register file to exercise Device.
type fakeChip struct {
	regs    [256]uint8
	fifo    []byte // bytes written to RegFifo
	rx      []byte // bytes returned from RegFifo reads
	rxPos   int
	writes  []uint8 // register addresses in write order
	failOn  uint8
	fail    bool
	neverTx bool
}

var _ Bus = (*fakeChip)(nil)

func newFakeChip() *fakeChip {
	c := &fakeChip{}
	c.regs[RegVersion] = chipVersion
	c.regs[RegOpMode] = lowFreqModeOn | ModeStandby // reset value
	return c
}

func (c *fakeChip) ReadRegister(addr uint8) (uint8, error) {
	if c.fail && addr == c.failOn {
		return 0, errors.New("bus error")
	}
	if addr == RegFifo {
		if c.rxPos >= len(c.rx) {
			return 0, nil
		}
		b := c.rx[c.rxPos]
		c.rxPos++
		return b, nil
	}
	return c.regs[addr], nil
}

func (c *fakeChip) WriteRegister(addr, value uint8) error {
	if c.fail && addr == c.failOn {
		return errors.New("bus error")
	}
	c.writes = append(c.writes, addr)
	switch addr {
	case RegFifo:
		c.fifo = append(c.fifo, value)
	case RegIrqFlags:
		// write-one-to-clear
		c.regs[addr] &^= value
	case RegOpMode:
		c.regs[addr] = value
		if value&modeMask == ModeTx && !c.neverTx {
			c.regs[RegIrqFlags] |= IrqTxDone
		}
	default:
		c.regs[addr] = value
	}
	return nil
}

// deliver places a received packet as the chip would after RxDone.
func (c *fakeChip) deliver(data []byte, flags uint8) {
	c.rx = data
	c.rxPos = 0
	c.regs[RegRxNbBytes] = uint8(len(data))
	c.regs[RegFifoRxCurrentAddr] = 0x10
	c.regs[RegIrqFlags] |= flags
}
