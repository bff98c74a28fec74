package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/itohio/gotelem/pkg/radio"
)

const publishTimeout = 5 * time.Second

// Broker is the part of an MQTT client the simulated air needs.
// mqtt.Client satisfies it.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// AirConfig describes the MQTT broker standing in for the radio channel.
type AirConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Uplink   string // topic transmitted packets are published to
	Downlink string // topic whose messages arrive as inbound packets
}

// Air is a transceiver whose channel is an MQTT broker. Send publishes the
// packet on the uplink topic; messages on the downlink topic wait in the
// receive queue until the next opportunistic poll, like a packet sitting in
// the radio FIFO.
type Air struct {
	*Radio

	broker Broker
	cfg    AirConfig
	logger *slog.Logger
}

var _ radio.Transceiver = (*Air)(nil)

// NewAir attaches a simulated radio to broker and subscribes to the downlink.
func NewAir(broker Broker, cfg AirConfig, logger *slog.Logger) (*Air, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a := &Air{
		Radio:  NewRadio(),
		broker: broker,
		cfg:    cfg,
		logger: logger,
	}

	token := broker.Subscribe(cfg.Downlink, 1, a.onMessage)
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("subscribe timeout for topic %s", cfg.Downlink)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", cfg.Downlink, err)
	}
	return a, nil
}

// DialAir connects to the broker described by cfg and returns the air
// together with a function that disconnects it.
func DialAir(ctx context.Context, cfg AirConfig, logger *slog.Logger) (*Air, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()

	const poll = 200 * time.Millisecond
	for !token.WaitTimeout(poll) {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connect: %w", err)
	}
	logger.Info("mqtt connected", "broker", cfg.Broker)

	a, err := NewAir(client, cfg, logger)
	if err != nil {
		client.Disconnect(250)
		return nil, nil, err
	}
	return a, func() { client.Disconnect(250) }, nil
}

// Send publishes data on the uplink topic and waits for the broker.
func (a *Air) Send(data []byte) error {
	if err := a.Radio.Send(data); err != nil {
		return err
	}

	token := a.broker.Publish(a.cfg.Uplink, 1, false, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", a.cfg.Uplink)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", a.cfg.Uplink, err)
	}
	return nil
}

func (a *Air) onMessage(_ mqtt.Client, msg mqtt.Message) {
	a.logger.Debug("downlink", "topic", msg.Topic(), "len", len(msg.Payload()))
	a.Inject(msg.Payload())
}
