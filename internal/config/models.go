package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Transport kinds understood by the transport factory
const (
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
	TransportMQTT      = "mqtt"
)

// Input sources understood by the run command
const (
	InputKeyboard = "keyboard"
	InputGPIO     = "gpio"
)

const (
	// CurrentVersion is the config file schema version
	CurrentVersion = 1

	// DefaultHost and DefaultPort address the stock ESP32 LED firmware
	DefaultHost = "192.168.0.187"
	DefaultPort = 1234

	// DefaultTimeoutMS bounds a single transport round trip
	DefaultTimeoutMS = 300

	// MaxTimeoutMS keeps the event loop responsive even with a bad config
	MaxTimeoutMS = 2000
)

// Config represents the entire panel configuration file.
type Config struct {
	Version   int       `yaml:"version" toml:"version"`
	Endpoint  Endpoint  `yaml:"endpoint" toml:"endpoint"`
	Transport Transport `yaml:"transport" toml:"transport"`
	Input     Input     `yaml:"input" toml:"input"`
	Logging   Logging   `yaml:"logging" toml:"logging"`
	Metrics   Metrics   `yaml:"metrics" toml:"metrics"`

	// MirrorLED names a local /sys/class/leds entry that follows the remote
	// actuator. Empty disables mirroring.
	MirrorLED string `yaml:"mirror_led,omitempty" toml:"mirror_led,omitempty"`
}

// Endpoint is the single remote device the panel controls.
type Endpoint struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`

	// Instance is an optional mDNS instance name (e.g. "esp32-led") resolved
	// once at startup. When it resolves, it replaces Host and Port.
	Instance string `yaml:"instance,omitempty" toml:"instance,omitempty"`
}

// Address returns the endpoint in host:port form.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns a human-readable endpoint label.
func (e Endpoint) String() string {
	return e.Address()
}

// Transport selects and tunes the wire protocol.
type Transport struct {
	Kind      string `yaml:"kind" toml:"kind"`             // http, ws or mqtt
	TimeoutMS int    `yaml:"timeout_ms" toml:"timeout_ms"` // per-call upper bound
	MQTT      MQTT   `yaml:"mqtt" toml:"mqtt"`
}

// Timeout returns the configured per-call timeout.
func (t Transport) Timeout() time.Duration {
	return time.Duration(t.TimeoutMS) * time.Millisecond
}

// MQTT holds broker settings for the mqtt transport.
type MQTT struct {
	Broker      string `yaml:"broker" toml:"broker"`             // e.g. tcp://192.168.0.10:1883
	TopicPrefix string `yaml:"topic_prefix" toml:"topic_prefix"` // e.g. wallpanel
	Name        string `yaml:"name" toml:"name"`                 // output name, e.g. led
	ClientID    string `yaml:"client_id,omitempty" toml:"client_id,omitempty"`
	Username    string `yaml:"username,omitempty" toml:"username,omitempty"`
	Password    string `yaml:"password,omitempty" toml:"password,omitempty"`
}

// Input selects where key events come from.
type Input struct {
	Source string `yaml:"source" toml:"source"` // keyboard or gpio
	GPIO   GPIO   `yaml:"gpio" toml:"gpio"`
}

// GPIO describes push buttons wired to a gpiochip.
type GPIO struct {
	Chip       string `yaml:"chip" toml:"chip"`
	ConfirmPin int    `yaml:"confirm_pin" toml:"confirm_pin"`
	BackPin    int    `yaml:"back_pin" toml:"back_pin"`
	PullUp     bool   `yaml:"pull_up" toml:"pull_up"`         // buttons short to ground
	DebounceMS int    `yaml:"debounce_ms" toml:"debounce_ms"` // stability window
}

// Debounce returns the configured debounce window.
func (g GPIO) Debounce() time.Duration {
	return time.Duration(g.DebounceMS) * time.Millisecond
}

// Logging configures the zap logger.
type Logging struct {
	Level string `yaml:"level,omitempty" toml:"level,omitempty"` // empty = silent
	File  string `yaml:"file,omitempty" toml:"file,omitempty"`   // empty = stderr
}

// Metrics configures the optional Prometheus listener.
type Metrics struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty"` // e.g. :9102, empty = disabled
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Endpoint: Endpoint{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Transport: Transport{
			Kind:      TransportHTTP,
			TimeoutMS: DefaultTimeoutMS,
			MQTT: MQTT{
				TopicPrefix: "wallpanel",
				Name:        "led",
				ClientID:    "ledpanel",
			},
		},
		Input: Input{
			Source: InputKeyboard,
			GPIO: GPIO{
				Chip:       "gpiochip0",
				ConfirmPin: 17,
				BackPin:    27,
				PullUp:     true,
				DebounceMS: 30,
			},
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.Endpoint.Host == "" && c.Endpoint.Instance == "" {
		return fmt.Errorf("endpoint host is required")
	}
	if c.Endpoint.Port < 1 || c.Endpoint.Port > 65535 {
		return fmt.Errorf("endpoint port %d out of range (1-65535)", c.Endpoint.Port)
	}

	switch c.Transport.Kind {
	case TransportHTTP, TransportWebSocket:
	case TransportMQTT:
		if c.Transport.MQTT.Broker == "" {
			return fmt.Errorf("mqtt transport requires transport.mqtt.broker")
		}
		if c.Transport.MQTT.TopicPrefix == "" || c.Transport.MQTT.Name == "" {
			return fmt.Errorf("mqtt transport requires topic_prefix and name")
		}
	default:
		return fmt.Errorf("unknown transport kind %q (want http, ws or mqtt)", c.Transport.Kind)
	}

	if c.Transport.TimeoutMS < 1 || c.Transport.TimeoutMS > MaxTimeoutMS {
		return fmt.Errorf("transport timeout %dms out of range (1-%d)", c.Transport.TimeoutMS, MaxTimeoutMS)
	}

	switch c.Input.Source {
	case InputKeyboard:
	case InputGPIO:
		g := c.Input.GPIO
		if g.Chip == "" {
			return fmt.Errorf("gpio input requires input.gpio.chip")
		}
		if g.ConfirmPin < 0 || g.BackPin < 0 {
			return fmt.Errorf("gpio pins must be non-negative")
		}
		if g.ConfirmPin == g.BackPin {
			return fmt.Errorf("gpio confirm and back pins must differ (both %d)", g.ConfirmPin)
		}
	default:
		return fmt.Errorf("unknown input source %q (want keyboard or gpio)", c.Input.Source)
	}

	return nil
}
