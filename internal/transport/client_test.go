package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/muurk/ledpanel/internal/config"
)

func TestNew(t *testing.T) {
	ep := config.Endpoint{Host: "10.0.0.7", Port: 1234}

	tests := []struct {
		kind     string
		wantName string
		wantErr  bool
	}{
		{config.TransportHTTP, "http", false},
		{config.TransportWebSocket, "ws", false},
		{config.TransportMQTT, "mqtt", false},
		{"coap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg := config.Default().Transport
			cfg.Kind = tt.kind
			cfg.MQTT.Broker = "tcp://127.0.0.1:1883"

			c, err := New(cfg, ep)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if c.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", c.Name(), tt.wantName)
			}
			if _, ok := c.(*instrumented); !ok {
				t.Errorf("New() should return an instrumented client, got %T", c)
			}
		})
	}
}

func TestInstrument_PassesOutcomeThrough(t *testing.T) {
	server := newDeviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"state":"ON"}`))
	})

	c := Instrument(NewHTTPClientWithURL(server.URL, time.Second))
	if Instrument(c) != c {
		t.Error("Instrument() should not wrap twice")
	}

	out := c.Execute(context.Background(), Toggle)
	if !out.OK() || !out.ReportedOn {
		t.Errorf("Execute() = %+v, want success ON", out)
	}
}
