package sim

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/itohio/gotelem/pkg/radio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { c := make(chan struct{}); close(c); return c }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// fakeBroker routes publishes to subscribers in-process.
type fakeBroker struct {
	mu           sync.Mutex
	published    map[string][][]byte
	handlers     map[string]mqtt.MessageHandler
	publishErr   error
	subscribeErr error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		published: make(map[string][][]byte),
		handlers:  make(map[string]mqtt.MessageHandler),
	}
}

func (b *fakeBroker) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return &fakeToken{err: b.publishErr}
	}
	b.published[topic] = append(b.published[topic], payload.([]byte))
	return &fakeToken{}
}

func (b *fakeBroker) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribeErr != nil {
		return &fakeToken{err: b.subscribeErr}
	}
	b.handlers[topic] = callback
	return &fakeToken{}
}

func (b *fakeBroker) deliver(topic string, payload []byte) {
	b.mu.Lock()
	h := b.handlers[topic]
	b.mu.Unlock()
	h(nil, &fakeMessage{topic: topic, payload: payload})
}

var testAir = AirConfig{
	Broker:   "tcp://localhost:1883",
	ClientID: "node-test",
	Uplink:   "gotelem/node-test/uplink",
	Downlink: "gotelem/node-test/downlink",
}

func TestAir_SessionExchange(t *testing.T) {
	broker := newFakeBroker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	air, err := NewAir(broker, testAir, logger)
	require.NoError(t, err)

	s, err := radio.Configure(air, radio.Config{FrequencyHz: radio.DefaultFrequency, SpreadingFactor: 7, CodingRate: 1, BandwidthCode: 7}, logger)
	require.NoError(t, err)

	require.NoError(t, s.Send([]byte("Internal voltage = 12000")))
	assert.Equal(t, [][]byte{[]byte("Internal voltage = 12000")}, broker.published[testAir.Uplink])

	pkt, err := s.PollReceive()
	require.NoError(t, err)
	assert.Nil(t, pkt)

	broker.deliver(testAir.Downlink, []byte("ack"))

	pkt, err = s.PollReceive()
	require.NoError(t, err)
	require.NotNil(t, pkt)
	assert.Equal(t, "ack", pkt.String())
}

func TestAir_PublishError(t *testing.T) {
	broker := newFakeBroker()
	air, err := NewAir(broker, testAir, nil)
	require.NoError(t, err)
	require.NoError(t, air.Standby())

	broker.publishErr = errors.New("not connected")
	err = air.Send([]byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish")
}

func TestAir_SubscribeError(t *testing.T) {
	broker := newFakeBroker()
	broker.subscribeErr = errors.New("not authorized")

	air, err := NewAir(broker, testAir, nil)
	assert.Nil(t, air)
	assert.Error(t, err)
}
