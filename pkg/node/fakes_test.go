package node

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/itohio/gotelem/pkg/convert"
	"github.com/itohio/gotelem/pkg/radio"
)

// queueADC hands out queued samples, then blocks until ctx is done.
type queueADC struct {
	samples    []convert.RawSample
	triggered  int
	sampled    int
	triggerErr error
	sampleErr  error
	onSample   func()
}

func (a *queueADC) Trigger() error {
	a.triggered++
	return a.triggerErr
}

func (a *queueADC) Sample(ctx context.Context) (convert.RawSample, error) {
	a.sampled++
	if a.onSample != nil {
		a.onSample()
	}
	if a.sampleErr != nil {
		return 0, a.sampleErr
	}
	if len(a.samples) == 0 {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	s := a.samples[0]
	a.samples = a.samples[1:]
	return s, nil
}

type recordingPin struct {
	levels []bool
}

func (p *recordingPin) Set(high bool) {
	p.levels = append(p.levels, high)
}

type countingPower struct {
	sleeps int
}

func (p *countingPower) DeepSleep() {
	p.sleeps++
}

// recordingRadio implements Exchanger and logs call order into a shared trace.
type recordingRadio struct {
	trace   *[]string
	sent    [][]byte
	sendErr error
	inbound []*radio.Packet
	polls   int
}

func (r *recordingRadio) Send(payload []byte) error {
	*r.trace = append(*r.trace, "send")
	r.sent = append(r.sent, append([]byte(nil), payload...))
	return r.sendErr
}

func (r *recordingRadio) PollReceive() (*radio.Packet, error) {
	*r.trace = append(*r.trace, "poll")
	r.polls++
	if len(r.inbound) == 0 {
		return nil, nil
	}
	p := r.inbound[0]
	r.inbound = r.inbound[1:]
	return p, nil
}

// fakeTransceiver is a minimal radio.Transceiver for Boot tests.
type fakeTransceiver struct {
	failStandby bool
	initErr     error
	initFreq    uint32
	sent        [][]byte
}

func (f *fakeTransceiver) Init(frequency uint32) error {
	f.initFreq = frequency
	return f.initErr
}

func (f *fakeTransceiver) Standby() error {
	if f.failStandby {
		return errors.New("bus error")
	}
	return nil
}

func (f *fakeTransceiver) SetFrequency(uint32) error      { return nil }
func (f *fakeTransceiver) SetSpreadingFactor(uint8) error { return nil }
func (f *fakeTransceiver) SetCodingRate(uint8) error      { return nil }
func (f *fakeTransceiver) SetBandwidth(uint8) error       { return nil }

func (f *fakeTransceiver) Send(data []byte) error {
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransceiver) ReceivePending() (int, error)      { return 0, nil }
func (f *fakeTransceiver) Receive([]byte) (int, error)       { return 0, nil }
func (f *fakeTransceiver) ReadRegister(uint8) (uint8, error) { return 0x81, nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
