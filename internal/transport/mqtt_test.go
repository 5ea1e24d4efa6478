package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/muurk/ledpanel/internal/config"
)

// fakeToken is a paho token that is already complete
type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// fakeMessage is a delivered state-topic message
type fakeMessage struct {
	topic    string
	payload  []byte
	retained bool
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return m.retained }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// fakeBroker implements mqtt.Client. onPublish decides which state messages
// the simulated device answers with.
type fakeBroker struct {
	mu         sync.Mutex
	connected  bool
	connectErr error
	handler    mqtt.MessageHandler
	published  []string
	topics     []string
	onPublish  func(payload string) []*fakeMessage
}

func (b *fakeBroker) IsConnected() bool { return b.IsConnectionOpen() }
func (b *fakeBroker) IsConnectionOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *fakeBroker) Connect() mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.connectErr == nil {
		b.connected = true
	}
	return newToken(b.connectErr)
}

func (b *fakeBroker) Disconnect(uint) {
	b.mu.Lock()
	b.connected = false
	b.mu.Unlock()
}

func (b *fakeBroker) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	b.mu.Lock()
	b.published = append(b.published, payload.(string))
	b.topics = append(b.topics, topic)
	handler := b.handler
	b.mu.Unlock()

	if b.onPublish != nil && handler != nil {
		for _, msg := range b.onPublish(payload.(string)) {
			handler(b, msg)
		}
	}
	return newToken(nil)
}

func (b *fakeBroker) Subscribe(_ string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	b.mu.Lock()
	b.handler = callback
	b.mu.Unlock()
	return newToken(nil)
}

func (b *fakeBroker) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return newToken(nil)
}

func (b *fakeBroker) Unsubscribe(...string) mqtt.Token {
	b.mu.Lock()
	b.handler = nil
	b.mu.Unlock()
	return newToken(nil)
}

func (b *fakeBroker) AddRoute(string, mqtt.MessageHandler) {}

func (b *fakeBroker) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

func testMQTTConfig() config.MQTT {
	return config.MQTT{Broker: "tcp://broker:1883", TopicPrefix: "wallpanel", Name: "led", ClientID: "test"}
}

func stateMsg(payload string, retained bool) *fakeMessage {
	return &fakeMessage{topic: "wallpanel/output/led/state", payload: []byte(payload), retained: retained}
}

func TestMQTTTopics(t *testing.T) {
	cmd, st := MQTTTopics("wallpanel/", "desk")
	if cmd != "wallpanel/output/desk/set" {
		t.Errorf("command topic = %s, want wallpanel/output/desk/set", cmd)
	}
	if st != "wallpanel/output/desk/state" {
		t.Errorf("state topic = %s, want wallpanel/output/desk/state", st)
	}
}

func TestMQTTPayload(t *testing.T) {
	if MQTTPayload(Toggle) != "TOGGLE" {
		t.Errorf("MQTTPayload(Toggle) = %s, want TOGGLE", MQTTPayload(Toggle))
	}
	if MQTTPayload(QueryState) != "STATE" {
		t.Errorf("MQTTPayload(QueryState) = %s, want STATE", MQTTPayload(QueryState))
	}
}

func TestMQTTClient_QueryAcceptsRetained(t *testing.T) {
	broker := &fakeBroker{onPublish: func(string) []*fakeMessage {
		return []*fakeMessage{stateMsg("ON", true)}
	}}
	client := newMQTTClient(broker, testMQTTConfig(), time.Second)

	out := client.Execute(context.Background(), QueryState)
	if !out.OK() || !out.ReportedOn {
		t.Fatalf("Execute() = %+v, want success ON", out)
	}
	if len(broker.published) != 1 || broker.published[0] != PayloadState {
		t.Errorf("published = %v, want [STATE]", broker.published)
	}
	if broker.topics[0] != "wallpanel/output/led/set" {
		t.Errorf("topic = %s, want wallpanel/output/led/set", broker.topics[0])
	}
}

func TestMQTTClient_ToggleSkipsRetained(t *testing.T) {
	broker := &fakeBroker{onPublish: func(string) []*fakeMessage {
		return []*fakeMessage{stateMsg("OFF", true), stateMsg("ON", false)}
	}}
	client := newMQTTClient(broker, testMQTTConfig(), time.Second)

	out := client.Execute(context.Background(), Toggle)
	if !out.OK() || !out.ReportedOn {
		t.Errorf("Execute() = %+v, want success ON from the fresh message", out)
	}
}

func TestMQTTClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		broker *fakeBroker
		want   Kind
	}{
		{"connect error", &fakeBroker{connectErr: errors.New("not authorized")}, KindNetwork},
		{"no answer", &fakeBroker{}, KindTimeout},
		{"only retained", &fakeBroker{onPublish: func(string) []*fakeMessage {
			return []*fakeMessage{stateMsg("ON", true)}
		}}, KindTimeout},
		{"garbage", &fakeBroker{onPublish: func(string) []*fakeMessage {
			return []*fakeMessage{stateMsg("42", false)}
		}}, KindMalformedReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMQTTClient(tt.broker, testMQTTConfig(), 50*time.Millisecond)
			out := client.Execute(context.Background(), Toggle)

			if out.OK() {
				t.Fatal("Execute() should fail")
			}
			if got := KindOf(out.Err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v (err = %v)", got, tt.want, out.Err)
			}
		})
	}
}

func TestMQTTClient_Close(t *testing.T) {
	broker := &fakeBroker{connected: true}
	client := newMQTTClient(broker, testMQTTConfig(), 0)

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if broker.IsConnected() {
		t.Error("Close() should disconnect from the broker")
	}
}
