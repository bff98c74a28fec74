package sx127x

// Register map (LoRa mode).
const (
	RegFifo              uint8 = 0x00
	RegOpMode            uint8 = 0x01
	RegFrfMsb            uint8 = 0x06
	RegFrfMid            uint8 = 0x07
	RegFrfLsb            uint8 = 0x08
	RegPaConfig          uint8 = 0x09
	RegLna               uint8 = 0x0C
	RegFifoAddrPtr       uint8 = 0x0D
	RegFifoTxBaseAddr    uint8 = 0x0E
	RegFifoRxBaseAddr    uint8 = 0x0F
	RegFifoRxCurrentAddr uint8 = 0x10
	RegIrqFlags          uint8 = 0x12
	RegRxNbBytes         uint8 = 0x13
	RegModemConfig1      uint8 = 0x1D
	RegModemConfig2      uint8 = 0x1E
	RegPayloadLength     uint8 = 0x22
	RegModemConfig3      uint8 = 0x26
	RegDetectOptimize    uint8 = 0x31
	RegDetectionThresh   uint8 = 0x37
	RegVersion           uint8 = 0x42
)

// RegOpMode bits.
const (
	ModeSleep     uint8 = 0x00
	ModeStandby   uint8 = 0x01
	ModeTx        uint8 = 0x03
	ModeRxCont    uint8 = 0x05
	modeMask      uint8 = 0x07
	lowFreqModeOn uint8 = 0x08
	longRangeMode uint8 = 0x80
)

// RegIrqFlags bits.
const (
	IrqTxDone          uint8 = 0x08
	IrqValidHeader     uint8 = 0x10
	IrqPayloadCrcError uint8 = 0x20
	IrqRxDone          uint8 = 0x40
)

const (
	chipVersion   uint8  = 0x12
	fxoscHz       uint32 = 32000000
	txBaseAddr    uint8  = 0x80
	rxBaseAddr    uint8  = 0x00
	lnaBoostHF    uint8  = 0x03
	agcAutoOn     uint8  = 0x04
	paRFO14dBm    uint8  = 0x7E
	implicitHdrOn uint8  = 0x01

	// FifoSize is the shared TX/RX FIFO size in bytes.
	FifoSize = 256
	// highBandHz is the threshold above which the HF port is used.
	highBandHz uint32 = 800000000
)

// Bandwidth codes for RegModemConfig1.
const (
	Bandwidth7_8KHz   uint8 = 0
	Bandwidth10_4KHz  uint8 = 1
	Bandwidth15_6KHz  uint8 = 2
	Bandwidth20_8KHz  uint8 = 3
	Bandwidth31_25KHz uint8 = 4
	Bandwidth41_7KHz  uint8 = 5
	Bandwidth62_5KHz  uint8 = 6
	Bandwidth125KHz   uint8 = 7
	Bandwidth250KHz   uint8 = 8
	Bandwidth500KHz   uint8 = 9
)

// Coding rates 4/5 .. 4/8.
const (
	CodingRate4_5 uint8 = 1
	CodingRate4_6 uint8 = 2
	CodingRate4_7 uint8 = 3
	CodingRate4_8 uint8 = 4
)
