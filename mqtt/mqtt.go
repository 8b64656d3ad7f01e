// mqtt.go - MQTT client that publishes food log events to a broker

package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"calorie-backend/events"

	paho "github.com/eclipse/paho.mqtt.golang" // MQTT client library
)

const (
	qos            = 1 // At least once; subscribers dedupe on entry id
	connectTimeout = 5 * time.Second
	publishTimeout = time.Second
)

var ErrTimeout = errors.New("mqtt operation timed out")

// broker is the part of paho.Client the publisher needs.
type broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Client publishes each event to "<prefix>/<userID>".
type Client struct {
	broker broker
	prefix string
	log    *slog.Logger
}

// Connect dials the broker. Reconnects after a lost connection happen in the background.
func Connect(brokerURL, clientID, prefix string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("mqtt connection lost", "broker", brokerURL, "error", err)
		}).
		SetOnConnectHandler(func(paho.Client) {
			log.Info("mqtt connected", "broker", brokerURL)
		})

	c := paho.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect %s: %w", brokerURL, ErrTimeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", brokerURL, err)
	}
	return newClient(c, prefix, log), nil
}

func newClient(b broker, prefix string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{broker: b, prefix: prefix, log: log}
}

// Topic is where events for userID are published.
func (c *Client) Topic(userID uint) string {
	return fmt.Sprintf("%s/%d", c.prefix, userID)
}

func (c *Client) Publish(ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	topic := c.Topic(ev.UserID)
	tok := c.broker.Publish(topic, qos, false, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: %w", topic, ErrTimeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	c.log.Debug("mqtt event published", "topic", topic, "kind", ev.Kind)
	return nil
}

// Close disconnects, giving in-flight messages a moment to drain.
func (c *Client) Close() {
	c.broker.Disconnect(250)
}
