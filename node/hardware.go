package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/itohio/gotelem/pkg/config"
	"github.com/itohio/gotelem/pkg/node"
	"github.com/itohio/gotelem/pkg/radio"
	"github.com/itohio/gotelem/pkg/sim"
	"github.com/itohio/gotelem/pkg/sx127x"
)

// openHardware builds the collaborators for the configured backend. The
// returned function releases them.
func openHardware(ctx context.Context, cfg *config.Config, logger *slog.Logger) (node.Hardware, func(), error) {
	trx, closeRadio, err := openRadio(ctx, cfg, logger)
	if err != nil {
		return node.Hardware{}, nil, err
	}

	adc := sim.NewADC(&sim.ADCConfig{
		Reference:  float32(cfg.ADC.Reference),
		Start:      float32(cfg.ADC.Start),
		Droop:      float32(cfg.ADC.Droop),
		NoiseLevel: float32(cfg.ADC.NoiseLevel),
		SampleRate: cfg.ADC.SampleRate,
	})

	hw := node.Hardware{
		ADC:    adc,
		Radio:  trx,
		Status: sim.NewPin("status", logger),
		Power:  &sim.Power{},
	}

	closeAll := func() {
		adc.Close()
		if n := adc.Dropped(); n > 0 {
			logger.Warn("samples dropped while busy", "count", n)
		}
		closeRadio()
	}
	return hw, closeAll, nil
}

func openRadio(ctx context.Context, cfg *config.Config, logger *slog.Logger) (radio.Transceiver, func(), error) {
	switch cfg.Backend.Kind {
	case config.BackendSim:
		return sim.NewRadio(), func() {}, nil

	case config.BackendSerial:
		bus, err := sx127x.OpenSerial(cfg.Backend.Serial.Port, cfg.Backend.Serial.BaudRate)
		if err != nil {
			if ports, perr := sx127x.Ports(); perr == nil {
				logger.Warn("radio bridge not found", "port", cfg.Backend.Serial.Port, "available", ports)
			}
			return nil, nil, err
		}
		logger.Info("radio bridge opened", "port", cfg.Backend.Serial.Port)
		return sx127x.New(bus), func() { bus.Close() }, nil

	case config.BackendMQTT:
		air, disconnect, err := sim.DialAir(ctx, sim.AirConfig{
			Broker:   cfg.Backend.MQTT.Broker,
			ClientID: cfg.Backend.MQTT.ClientID,
			Uplink:   cfg.Backend.MQTT.Uplink,
			Downlink: cfg.Backend.MQTT.Downlink,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return air, disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}
