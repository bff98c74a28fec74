package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "voltage", cfg.Variant)
	assert.Equal(t, 1.5, cfg.ADC.Reference)
	assert.Equal(t, 125*time.Millisecond, cfg.ADC.SampleRate)
	assert.Equal(t, uint32(915000000), cfg.Radio.FrequencyHz)
	assert.Equal(t, uint8(7), cfg.Radio.SpreadingFactor)
	assert.Equal(t, uint8(1), cfg.Radio.CodingRate)
	assert.Equal(t, uint8(7), cfg.Radio.BandwidthCode)
	assert.Equal(t, 500*time.Millisecond, cfg.Fault.Interval)
	assert.Equal(t, BackendSim, cfg.Backend.Kind)
	assert.NoError(t, cfg.Validate())
}

func TestParse_ValidYAML(t *testing.T) {
	yamlContent := `
variant: temperature

adc:
  reference: 1.5
  sample_rate: 250ms

radio:
  frequency_hz: 868000000
  spreading_factor: 9
  coding_rate: 2
  bandwidth_code: 8

node:
  settle_delay: 1s

log:
  level: debug
  format: json

backend:
  kind: serial
  serial:
    port: /dev/ttyUSB1
`

	cfg, err := Parse([]byte(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "temperature", cfg.Variant)
	assert.Equal(t, 250*time.Millisecond, cfg.ADC.SampleRate)
	assert.Equal(t, radio.Config{
		FrequencyHz:     868000000,
		SpreadingFactor: 9,
		CodingRate:      2,
		BandwidthCode:   8,
	}, cfg.RadioSettings())
	assert.Equal(t, time.Second, cfg.Node.SettleDelay)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, BackendSerial, cfg.Backend.Kind)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Backend.Serial.Port)
	assert.Equal(t, 115200, cfg.Backend.Serial.BaudRate) // default

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	s, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, convert.Temperature{Reference: 1.5}, s)
}

func TestParse_PartialYAML(t *testing.T) {
	cfg, err := Parse([]byte("radio:\n  spreading_factor: 12\n"))
	require.NoError(t, err)

	// Should use defaults for missing fields
	assert.Equal(t, uint8(12), cfg.Radio.SpreadingFactor)
	assert.Equal(t, uint32(915000000), cfg.Radio.FrequencyHz)
	assert.Equal(t, "voltage", cfg.Variant)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_InvalidYAML(t *testing.T) {
	cfg, err := Parse([]byte("invalid: yaml: content: ["))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown variant", "variant: humidity", "unknown variant"},
		{"negative reference", "adc:\n  reference: -1", "adc.reference"},
		{"spreading factor", "radio:\n  spreading_factor: 13", "radio.spreading_factor"},
		{"coding rate", "radio:\n  coding_rate: 5", "radio.coding_rate"},
		{"bandwidth", "radio:\n  bandwidth_code: 10", "radio.bandwidth_code"},
		{"log level", "log:\n  level: loud", "log.level"},
		{"log format", "log:\n  format: xml", "log.format"},
		{"backend", "backend:\n  kind: usb", "backend.kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Variant = convert.VariantTemperature
	cfg.Node.SettleDelay = 2 * time.Second

	data, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
