package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/config"
	"github.com/muurk/ledpanel/internal/logging"
)

const (
	// PayloadToggle is published on the command topic to flip the LED
	PayloadToggle = "TOGGLE"

	// PayloadState is published on the command topic to request the state
	PayloadState = "STATE"
)

// MQTTTopics derives the command and state topics for an output entity
func MQTTTopics(prefix, name string) (commandTopic, stateTopic string) {
	prefix = strings.TrimRight(prefix, "/")
	commandTopic = fmt.Sprintf("%s/output/%s/set", prefix, name)
	stateTopic = fmt.Sprintf("%s/output/%s/state", prefix, name)
	return commandTopic, stateTopic
}

// MQTTPayload returns the command-topic payload for cmd
func MQTTPayload(cmd Command) string {
	if cmd == Toggle {
		return PayloadToggle
	}
	return PayloadState
}

// stateMessage is a state-topic message captured during a call
type stateMessage struct {
	payload  []byte
	retained bool
}

// MQTTClient reaches the device through a broker. The broker session is
// opened lazily on the first call and kept until Close.
type MQTTClient struct {
	client       mqtt.Client
	broker       string
	commandTopic string
	stateTopic   string
	timeout      time.Duration

	// mu serializes calls so each one owns the state subscription
	mu sync.Mutex
}

// NewMQTTClient creates a client for the broker in cfg
func NewMQTTClient(cfg config.MQTT, timeout time.Duration) *MQTTClient {
	timeout = clampTimeout(timeout)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(timeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logging.Warn("MQTT connection lost", zap.Error(err))
	})

	return newMQTTClient(mqtt.NewClient(opts), cfg, timeout)
}

func newMQTTClient(client mqtt.Client, cfg config.MQTT, timeout time.Duration) *MQTTClient {
	commandTopic, stateTopic := MQTTTopics(cfg.TopicPrefix, cfg.Name)
	return &MQTTClient{
		client:       client,
		broker:       cfg.Broker,
		commandTopic: commandTopic,
		stateTopic:   stateTopic,
		timeout:      clampTimeout(timeout),
	}
}

// Name implements Client
func (c *MQTTClient) Name() string { return "mqtt" }

// Endpoint implements Client
func (c *MQTTClient) Endpoint() string { return c.broker + " " + c.commandTopic }

// Close disconnects from the broker
func (c *MQTTClient) Close() error {
	if c.client.IsConnected() {
		c.client.Disconnect(250)
	}
	return nil
}

// Execute publishes cmd and waits for the device to publish its state
func (c *MQTTClient) Execute(ctx context.Context, cmd Command) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	op := cmd.String()
	endpoint := c.Endpoint()

	if !c.client.IsConnectionOpen() {
		if err := waitToken(ctx, c.client.Connect()); err != nil {
			return Failure(Classify(err, op, endpoint))
		}
	}

	replies := make(chan stateMessage, 4)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case replies <- stateMessage{payload: msg.Payload(), retained: msg.Retained()}:
		default:
		}
	}

	if err := waitToken(ctx, c.client.Subscribe(c.stateTopic, 1, handler)); err != nil {
		return Failure(Classify(err, op, endpoint))
	}
	defer c.client.Unsubscribe(c.stateTopic)

	if err := waitToken(ctx, c.client.Publish(c.commandTopic, 1, false, MQTTPayload(cmd))); err != nil {
		return Failure(Classify(err, op, endpoint))
	}

	for {
		select {
		case <-ctx.Done():
			return Failure(Classify(ctx.Err(), op, endpoint))
		case msg := <-replies:
			// A retained state predates a toggle
			if cmd == Toggle && msg.retained {
				continue
			}
			logging.LogRawReply(op, msg.payload)

			on, err := ParseStateBody(msg.payload)
			if err != nil {
				return Failure(malformed(op, endpoint, "unparsable state message", err))
			}
			return Success(on)
		}
	}
}

// waitToken waits for a paho token or ctx, whichever finishes first
func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
