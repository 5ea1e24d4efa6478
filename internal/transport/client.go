package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/ledpanel/internal/config"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/metrics"
)

// New returns the configured transport for endpoint, wrapped so every call
// is logged and recorded in metrics.
func New(cfg config.Transport, endpoint config.Endpoint) (Client, error) {
	var c Client
	switch cfg.Kind {
	case config.TransportHTTP, "":
		c = NewHTTPClient(endpoint.Address(), cfg.Timeout())
	case config.TransportWebSocket:
		c = NewWSClient(endpoint.Address(), cfg.Timeout())
	case config.TransportMQTT:
		c = NewMQTTClient(cfg.MQTT, cfg.Timeout())
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Kind)
	}
	return Instrument(c), nil
}

// Instrument wraps c so each call is timed, logged and counted.
func Instrument(c Client) Client {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Client: c}
}

type instrumented struct {
	Client
}

func (i *instrumented) Execute(ctx context.Context, cmd Command) Outcome {
	start := time.Now()
	out := i.Client.Execute(ctx, cmd)
	elapsed := time.Since(start)

	metrics.ObserveTransport(cmd.String(), i.Name(), out.OK(), elapsed)
	if out.OK() {
		logging.LogCommand(cmd.String(), i.Endpoint(), out.ReportedOn, elapsed)
	} else {
		logging.LogTransportFailure(cmd.String(), i.Endpoint(), KindOf(out.Err).String(), out.Err, elapsed)
	}
	return out
}
