package emulator

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/transport"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 2 * time.Second

	// Idle connections are dropped after this long without a request
	idleTimeout = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	// Registration and the closing check share mu with Shutdown, so no
	// connection is added to wg once Shutdown has started waiting.
	remoteAddr := r.RemoteAddr
	s.mu.Lock()
	select {
	case <-s.closing:
		s.mu.Unlock()
		_ = conn.Close()
		return
	default:
	}
	s.activeConns[remoteAddr] = conn
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		s.wg.Done()
		logging.Debug("WebSocket closed", zap.String("remote_addr", remoteAddr))
	}()

	conn.SetReadLimit(maxMessageSize)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if err := s.handleFrame(conn, remoteAddr, data); err != nil {
			logging.Debug("WebSocket write failed", zap.String("remote_addr", remoteAddr), zap.Error(err))
			return
		}
	}
}

// handleFrame answers one request frame
func (s *Server) handleFrame(conn *websocket.Conn, remoteAddr string, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	var req transport.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return conn.WriteJSON(transport.Reply{Error: "invalid request"})
	}

	cmd, err := transport.ParseCommand(req.Cmd)
	if err != nil {
		return conn.WriteJSON(transport.Reply{ID: req.ID, Error: err.Error()})
	}

	switch s.device.Fault() {
	case FaultSilent:
		return nil
	case FaultGarbage:
		return conn.WriteMessage(websocket.TextMessage, []byte(garbageReply))
	}

	on := s.execute(cmd)
	logging.Debug("WebSocket command served",
		zap.String("remote_addr", remoteAddr),
		zap.Uint64("id", req.ID),
		zap.String("command", cmd.String()),
		zap.Bool("on", on),
	)
	return conn.WriteJSON(transport.Reply{ID: req.ID, State: transport.StateValue(on)})
}
