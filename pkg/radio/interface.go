package radio

// Transceiver is the register-level radio collaborator a Session drives.
// Every call blocks until the peripheral has completed it.
type Transceiver interface {
	Standby() error
	SetFrequency(hz uint32) error
	SetSpreadingFactor(sf uint8) error
	SetCodingRate(cr uint8) error
	SetBandwidth(code uint8) error

	// Send transmits data as one packet and returns once transmission is done.
	Send(data []byte) error
	// ReceivePending returns the length of a received packet waiting in the
	// FIFO, or 0 when there is none.
	ReceivePending() (int, error)
	// Receive copies at most len(buf) bytes of the pending packet into buf.
	Receive(buf []byte) (int, error)

	// ReadRegister is for diagnostics only.
	ReadRegister(addr uint8) (uint8, error)
}

// Listener is implemented by transceivers that can open a continuous
// receive window. Sessions never enter it; inbound packets are only picked
// up opportunistically after a transmit.
type Listener interface {
	ReceiveMode() error
}
