// Package metrics exposes Prometheus instruments for the control panel.
//
// All instruments are registered with the default registry via promauto, so
// Handler serves them without further wiring. Recording functions are safe to
// call when no listener is running.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transportCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledpanel_transport_calls_total",
		Help: "Device commands issued, by command, transport and result",
	}, []string{"command", "transport", "result"})

	transportLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledpanel_transport_duration_seconds",
		Help:    "Round-trip time of device commands",
		Buckets: []float64{.005, .01, .025, .05, .1, .2, .3, .5, 1, 2},
	}, []string{"command", "transport"})

	eventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledpanel_loop_events_total",
		Help: "Events taken from the merged tick/input queue, by kind",
	}, []string{"kind"})

	redraws = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledpanel_redraws_total",
		Help: "Full-frame redraws handed to the display surface",
	})

	inputDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledpanel_input_dropped_total",
		Help: "Input events dropped because the queue was full",
	})

	actuatorOn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledpanel_actuator_on",
		Help: "Last known actuator state (1 = on)",
	})

	connected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledpanel_connected",
		Help: "Whether the last transport attempt succeeded (1 = yes)",
	})
)

// ObserveTransport records one transport call.
func ObserveTransport(command, transport string, ok bool, elapsed time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}
	transportCalls.WithLabelValues(command, transport, result).Inc()
	transportLatency.WithLabelValues(command, transport).Observe(elapsed.Seconds())
}

// IncEvent counts an event dispatched by the loop.
func IncEvent(kind string) {
	eventsDispatched.WithLabelValues(kind).Inc()
}

// IncRedraw counts a redraw.
func IncRedraw() {
	redraws.Inc()
}

// IncInputDropped counts a dropped input event.
func IncInputDropped() {
	inputDropped.Inc()
}

// SetDeviceState publishes the current actuator and connection state.
func SetDeviceState(on, isConnected bool) {
	actuatorOn.Set(boolToFloat(on))
	connected.Set(boolToFloat(isConnected))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve runs a /metrics listener on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
