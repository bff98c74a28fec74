package convert

import "fmt"

// Variant names accepted by ForVariant.
const (
	VariantVoltage     = "voltage"
	VariantTemperature = "temperature"
)

// Strategy turns a raw sample into the reading a node reports.
type Strategy interface {
	// Label is the text prefix of the telemetry payload.
	Label() string
	Convert(raw RawSample) (float64, error)
}

var (
	_ Strategy = Voltage{}
	_ Strategy = Temperature{}
)

// Voltage reports the sampled voltage.
type Voltage struct {
	Reference float64
}

func (Voltage) Label() string { return "Internal voltage = " }

func (v Voltage) Convert(raw RawSample) (float64, error) {
	return VoltageFromRaw(raw, v.Reference), nil
}

// Temperature reports the sampled voltage converted to degrees Celsius.
type Temperature struct {
	Reference float64
}

func (Temperature) Label() string { return "Temperature = " }

func (t Temperature) Convert(raw RawSample) (float64, error) {
	return TemperatureFromVoltage(VoltageFromRaw(raw, t.Reference))
}

// ForVariant returns the strategy for a deployment variant name.
func ForVariant(name string, reference float64) (Strategy, error) {
	switch name {
	case VariantVoltage:
		return Voltage{Reference: reference}, nil
	case VariantTemperature:
		return Temperature{Reference: reference}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q (allowed: %s, %s)", name, VariantVoltage, VariantTemperature)
	}
}
