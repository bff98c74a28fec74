//go:build tinygo

//go:generate tinygo flash -target=xiao
//go:generate tinygo flash -target=xiao -tags temperature

package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/itohio/gotelem/pkg/fault"
	"github.com/itohio/gotelem/pkg/node"
	"github.com/itohio/gotelem/pkg/radio"
	"github.com/itohio/gotelem/pkg/sx127x"
)

func main() {
	machine.Serial.Configure(machine.UARTConfig{})
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Status LED starts busy
	PIN_STATUS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_STATUS.Set(node.StatusBusy)

	// Chip select idles high
	PIN_LORA_CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LORA_CS.High()

	resetRadio()

	ctx := context.Background()
	halt := fault.Handler{
		Indicator: PIN_STATUS,
		Interval:  FAULT_BLINK_INTERVAL * time.Millisecond,
		Logger:    logger,
	}

	if err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: LORA_SPI_HZ,
		Mode:      0,
	}); err != nil {
		halt.Halt(ctx, err)
	}

	bus := sx127x.NewSPIBus(machine.SPI0, func(active bool) {
		PIN_LORA_CS.Set(!active)
	})

	hw := node.Hardware{
		ADC:    newBoardADC(PIN_ADC, SAMPLE_INTERVAL_MS*time.Millisecond),
		Radio:  sx127x.New(bus),
		Status: PIN_STATUS,
		Power:  boardPower{},
	}

	// Boot only returns on cancellation, which never happens here.
	node.Boot(ctx, hw, node.Options{
		Radio: radio.Config{
			FrequencyHz:     LORA_FREQUENCY_HZ,
			SpreadingFactor: LORA_SPREADING,
			CodingRate:      LORA_CODING_RATE,
			BandwidthCode:   LORA_BANDWIDTH_CODE,
		},
		Strategy:      strategy(),
		SettleDelay:   SETTLE_DELAY_MS * time.Millisecond,
		FaultInterval: FAULT_BLINK_INTERVAL * time.Millisecond,
		Logger:        logger,
	})
}

// resetRadio pulses the SX127x reset line and waits for the oscillator.
func resetRadio() {
	PIN_LORA_RESET.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LORA_RESET.Low()
	time.Sleep(time.Millisecond)
	PIN_LORA_RESET.High()
	time.Sleep(5 * time.Millisecond)
}
