package convert

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Resolution is the ADC resolution in bits.
	Resolution = 14
	// MaxRaw is the full-scale reading of a 14-bit conversion (2^14 - 1).
	MaxRaw RawSample = 1<<Resolution - 1
	// DefaultReference is the ADC reference rail in volts.
	DefaultReference = 1.5
)

// Sensor transfer constants for the internal temperature diode.
const (
	sensorOffset    = 5.506
	sensorGain      = 0.00176
	sensorZeroMV    = 870.6
	sensorZeroTempC = 30.0
)

// ErrOutOfRange is returned when a voltage falls outside the sensor model,
// i.e. the quadratic inversion would take the square root of a negative number.
var ErrOutOfRange = errors.New("reading outside sensor range")

// RawSample is a single 14-bit ADC reading (0-16383).
type RawSample uint16

// VoltageFromRaw converts a raw ADC reading to volts against the given reference.
func VoltageFromRaw(raw RawSample, reference float64) float64 {
	return float64(raw) * reference / float64(MaxRaw)
}

// TemperatureFromVoltage inverts the quadratic sensor transfer function and
// returns the temperature in degrees Celsius.
func TemperatureFromVoltage(voltage float64) (float64, error) {
	mv := voltage * 1000
	radicand := sensorOffset*sensorOffset + 4*sensorGain*(sensorZeroMV-mv)
	if radicand < 0 || math.IsNaN(radicand) {
		return 0, fmt.Errorf("%w: %.4f V", ErrOutOfRange, voltage)
	}

	top := sensorOffset - math.Sqrt(radicand)
	bottom := 2 * -sensorGain
	return top/bottom + sensorZeroTempC, nil
}
