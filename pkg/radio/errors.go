package radio

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every *ConfigError.
	ErrConfig = errors.New("radio configuration failed")
	// ErrTransmitFailed is returned when the transceiver reports a failed send.
	ErrTransmitFailed = errors.New("transmit failed")
	// ErrReceiveFailed is returned when a pending packet could not be read.
	ErrReceiveFailed = errors.New("receive failed")
	// ErrPayloadTooLarge is returned for payloads above MaxPacketSize.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum packet size")
)

// ConfigError reports which configuration step the transceiver rejected.
type ConfigError struct {
	Step string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("radio configuration failed at %s: %v", e.Step, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
