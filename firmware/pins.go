//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 125 // Conversion timer period (8 Hz)
	SETTLE_DELAY_MS    = 0   // Wait after the radio exchange, before sleeping

	// ADC configuration
	ADC_REFERENCE_MV = 1500 // Internal 1.5V reference
	ADC_RESOLUTION   = 14   // ADC resolution in bits (14-bit = 0-16383)

	// Status LED: low while busy, high when idle. Blinks on fault.
	PIN_STATUS = machine.LED

	// ADC pin (internal supply divider or temperature channel)
	PIN_ADC = machine.A0

	// SX1276 / RFM95W wiring
	PIN_LORA_CS    = machine.D3
	PIN_LORA_RESET = machine.D2
	LORA_SPI_HZ    = 1000000 // Well below the chip's 10 MHz limit

	// Radio configuration
	LORA_FREQUENCY_HZ    = 915000000
	LORA_SPREADING       = 7
	LORA_CODING_RATE     = 1   // 4/5
	LORA_BANDWIDTH_CODE  = 7   // 125 kHz
	FAULT_BLINK_INTERVAL = 500 // ms
)
