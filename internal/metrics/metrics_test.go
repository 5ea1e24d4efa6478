package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTransport(t *testing.T) {
	before := testutil.ToFloat64(transportCalls.WithLabelValues("toggle", "http", "failure"))

	ObserveTransport("toggle", "http", false, 120*time.Millisecond)

	after := testutil.ToFloat64(transportCalls.WithLabelValues("toggle", "http", "failure"))
	if after != before+1 {
		t.Errorf("failure counter = %v, want %v", after, before+1)
	}
}

func TestSetDeviceState(t *testing.T) {
	SetDeviceState(true, false)

	if got := testutil.ToFloat64(actuatorOn); got != 1 {
		t.Errorf("actuator gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(connected); got != 0 {
		t.Errorf("connected gauge = %v, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	IncRedraw()
	IncEvent("tick")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, name := range []string{"ledpanel_redraws_total", "ledpanel_loop_events_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in response", name)
		}
	}
}
