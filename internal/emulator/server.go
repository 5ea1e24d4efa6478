package emulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/discovery"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/transport"
)

// Config holds the emulator configuration
type Config struct {
	Host string
	Port int

	// Advertise is the mDNS instance name to register (empty = no mDNS)
	Advertise string
}

// Server serves a Device over HTTP and WebSocket
type Server struct {
	config     *Config
	device     *Device
	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
	wg          sync.WaitGroup
	closing     chan struct{}
	closeOnce   sync.Once
}

// New creates a new Server instance
func New(config *Config, device *Device) *Server {
	s := &Server{
		config:      config,
		device:      device,
		activeConns: make(map[string]*websocket.Conn),
		closing:     make(chan struct{}),
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Device returns the emulated device
func (s *Server) Device() *Device {
	return s.device
}

// Handler returns the device's HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(transport.TogglePath, s.handleToggle)
	mux.HandleFunc(transport.StatePath, s.handleState)
	mux.HandleFunc(transport.WebSocketPath, s.handleWebSocket)
	return mux
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or "" before Listen
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts connections on the bound listener until Shutdown
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("emulator: Serve called before Listen")
	}
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens, optionally advertises over mDNS, and serves until ctx is
// cancelled
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting LED device emulator",
		zap.String("addr", s.Addr()),
		zap.String("advertise", s.config.Advertise),
	)

	if s.config.Advertise != "" {
		port := s.listener.Addr().(*net.TCPAddr).Port
		stop, err := discovery.Advertise(s.config.Advertise, port, []string{"transport=http", "ws=" + transport.WebSocketPath})
		if err != nil {
			_ = s.listener.Close()
			return err
		}
		defer stop()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping emulator...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.closing) })

	err := s.httpServer.Shutdown(ctx)

	// Hijacked WebSocket connections are not closed by http.Server
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Debug("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	return err
}

// GetActiveConnections returns the number of open WebSocket connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

// hold blocks a silent reply until the client gives up or the server stops
func (s *Server) hold(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-s.closing:
	}
}
