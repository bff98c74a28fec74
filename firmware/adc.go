//go:build tinygo

package main

import (
	"context"
	"machine"
	"runtime"
	"time"

	"github.com/itohio/gotelem/pkg/convert"
)

// boardADC runs conversions on a timer goroutine. A conversion that finds
// the ready slot full is dropped.
type boardADC struct {
	adc      machine.ADC
	interval time.Duration
	ready    chan convert.RawSample
}

func newBoardADC(pin machine.Pin, interval time.Duration) *boardADC {
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})

	a := &boardADC{
		adc:      machine.ADC{Pin: pin},
		interval: interval,
		ready:    make(chan convert.RawSample, 1),
	}
	a.adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})
	return a
}

func (a *boardADC) Trigger() error {
	go a.convert()
	return nil
}

func (a *boardADC) Sample(ctx context.Context) (convert.RawSample, error) {
	select {
	case s := <-a.ready:
		return s, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (a *boardADC) convert() {
	for {
		time.Sleep(a.interval)

		// machine.ADC scales every reading to 16 bits
		s := convert.RawSample(a.adc.Get() >> (16 - ADC_RESOLUTION))
		select {
		case a.ready <- s:
		default:
		}
	}
}

// boardPower yields to the scheduler. With every goroutine blocked on the
// next conversion the runtime sleeps the core until the timer fires.
type boardPower struct{}

func (boardPower) DeepSleep() {
	runtime.Gosched()
}
