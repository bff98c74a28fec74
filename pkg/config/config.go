package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/radio"
)

// Backend kinds.
const (
	BackendSim    = "sim"
	BackendSerial = "serial"
	BackendMQTT   = "mqtt"
)

// Config represents a deployment profile. Profiles are compiled into the
// binary; nothing is read from disk at runtime.
type Config struct {
	Variant string        `yaml:"variant"`
	ADC     ADCConfig     `yaml:"adc"`
	Radio   RadioConfig   `yaml:"radio"`
	Node    NodeConfig    `yaml:"node"`
	Fault   FaultConfig   `yaml:"fault"`
	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
}

// ADCConfig contains converter parameters.
type ADCConfig struct {
	Reference  float64       `yaml:"reference"`   // Reference voltage (V)
	SampleRate time.Duration `yaml:"sample_rate"` // Conversion timer period
	// Simulator only
	Start      float64 `yaml:"start"`       // Simulated voltage at boot (V)
	Droop      float64 `yaml:"droop"`       // Simulated discharge (V per hour)
	NoiseLevel float64 `yaml:"noise_level"` // Simulated noise amplitude (V)
}

// RadioConfig contains the LoRa physical-layer settings.
type RadioConfig struct {
	FrequencyHz     uint32 `yaml:"frequency_hz"`
	SpreadingFactor uint8  `yaml:"spreading_factor"`
	CodingRate      uint8  `yaml:"coding_rate"`
	BandwidthCode   uint8  `yaml:"bandwidth_code"`
}

// NodeConfig contains sample loop parameters.
type NodeConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"` // Wait after the exchange, before sleeping
}

// FaultConfig contains fault indicator parameters.
type FaultConfig struct {
	Interval time.Duration `yaml:"interval"` // On and off time of the blink
}

// LogConfig contains console logging parameters.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// BackendConfig selects the host-side collaborators.
type BackendConfig struct {
	Kind   string       `yaml:"kind"`
	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

// SerialConfig contains the USB-SPI bridge port.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MQTTConfig contains the broker standing in for the radio channel.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Uplink   string `yaml:"uplink"`
	Downlink string `yaml:"downlink"`
}

// Default returns the reference deployment: voltage reporting at 915 MHz,
// SF7, CR 4/5, 125 kHz, sampling eight times per second.
func Default() *Config {
	return &Config{
		Variant: convert.VariantVoltage,
		ADC: ADCConfig{
			Reference:  convert.DefaultReference,
			SampleRate: time.Second / 8,
			Start:      1.2,
			Droop:      0.01,
			NoiseLevel: 0.002,
		},
		Radio: RadioConfig{
			FrequencyHz:     radio.DefaultFrequency,
			SpreadingFactor: 7,
			CodingRate:      1,
			BandwidthCode:   7,
		},
		Node: NodeConfig{
			SettleDelay: 0,
		},
		Fault: FaultConfig{
			Interval: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Backend: BackendConfig{
			Kind: BackendSim,
			Serial: SerialConfig{
				Port:     "/dev/ttyACM0",
				BaudRate: 115200,
			},
			MQTT: MQTTConfig{
				Broker:   "tcp://localhost:1883",
				ClientID: "gotelem-node",
				Uplink:   "gotelem/node/uplink",
				Downlink: "gotelem/node/downlink",
			},
		},
	}
}

// Parse decodes a YAML profile over the defaults. Missing fields keep
// their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks values the hardware would reject.
func (c *Config) Validate() error {
	if _, err := convert.ForVariant(c.Variant, c.ADC.Reference); err != nil {
		return err
	}
	if c.ADC.Reference <= 0 {
		return fmt.Errorf("adc.reference must be positive, got %v", c.ADC.Reference)
	}
	if c.Radio.SpreadingFactor < 6 || c.Radio.SpreadingFactor > 12 {
		return fmt.Errorf("radio.spreading_factor %d out of range (6-12)", c.Radio.SpreadingFactor)
	}
	if c.Radio.CodingRate < 1 || c.Radio.CodingRate > 4 {
		return fmt.Errorf("radio.coding_rate %d out of range (1-4)", c.Radio.CodingRate)
	}
	if c.Radio.BandwidthCode > 9 {
		return fmt.Errorf("radio.bandwidth_code %d out of range (0-9)", c.Radio.BandwidthCode)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (allowed: text, json)", c.Log.Format)
	}
	switch c.Backend.Kind {
	case BackendSim, BackendSerial, BackendMQTT:
	default:
		return fmt.Errorf("invalid backend.kind %q (allowed: %s, %s, %s)", c.Backend.Kind, BackendSim, BackendSerial, BackendMQTT)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q (allowed: debug, info, warn, error)", c.Log.Level)
	}
}

// Strategy returns the conversion strategy for the configured variant.
func (c *Config) Strategy() (convert.Strategy, error) {
	return convert.ForVariant(c.Variant, c.ADC.Reference)
}

// RadioSettings converts the radio section for radio.Configure.
func (c *Config) RadioSettings() radio.Config {
	return radio.Config{
		FrequencyHz:     c.Radio.FrequencyHz,
		SpreadingFactor: c.Radio.SpreadingFactor,
		CodingRate:      c.Radio.CodingRate,
		BandwidthCode:   c.Radio.BandwidthCode,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Variant == "" {
		c.Variant = def.Variant
	}

	if c.ADC.Reference == 0 {
		c.ADC.Reference = def.ADC.Reference
	}
	if c.ADC.SampleRate == 0 {
		c.ADC.SampleRate = def.ADC.SampleRate
	}

	if c.Radio.FrequencyHz == 0 {
		c.Radio.FrequencyHz = def.Radio.FrequencyHz
	}
	if c.Radio.SpreadingFactor == 0 {
		c.Radio.SpreadingFactor = def.Radio.SpreadingFactor
	}
	if c.Radio.CodingRate == 0 {
		c.Radio.CodingRate = def.Radio.CodingRate
	}

	if c.Fault.Interval == 0 {
		c.Fault.Interval = def.Fault.Interval
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if c.Backend.Kind == "" {
		c.Backend.Kind = def.Backend.Kind
	}
	if c.Backend.Serial.BaudRate == 0 {
		c.Backend.Serial.BaudRate = def.Backend.Serial.BaudRate
	}
}
