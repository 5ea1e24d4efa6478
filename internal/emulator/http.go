package emulator

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/transport"
)

const garbageReply = "<html><body>It works!</body></html>"

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.reply(w, r, transport.Toggle)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.reply(w, r, transport.QueryState)
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, cmd transport.Command) {
	switch s.device.Fault() {
	case FaultSilent:
		s.hold(r.Context())
		return
	case FaultGarbage:
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(garbageReply))
		return
	}

	on := s.execute(cmd)
	logging.Debug("HTTP command served",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("command", cmd.String()),
		zap.Bool("on", on),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(transport.Reply{State: transport.StateValue(on)})
}

// execute applies cmd to the device and returns the resulting state
func (s *Server) execute(cmd transport.Command) bool {
	if cmd == transport.Toggle {
		return s.device.Toggle()
	}
	return s.device.State()
}
