package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/ledpanel/internal/logging"
)

// WebSocketPath is the route of the device's command socket
const WebSocketPath = "/ws"

// WSClient sends commands as JSON frames over a WebSocket. Each call dials a
// fresh connection; frame ids only pair a reply with its request.
type WSClient struct {
	URL     string
	Timeout time.Duration
	Dialer  *websocket.Dialer

	nextID atomic.Uint64
}

// NewWSClient creates a client for the device at host:port
func NewWSClient(address string, timeout time.Duration) *WSClient {
	return NewWSClientWithURL("ws://"+address+WebSocketPath, timeout)
}

// NewWSClientWithURL creates a client with a full socket URL
func NewWSClientWithURL(wsURL string, timeout time.Duration) *WSClient {
	timeout = clampTimeout(timeout)
	return &WSClient{
		URL:     wsURL,
		Timeout: timeout,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

// Name implements Client
func (c *WSClient) Name() string { return "ws" }

// Endpoint implements Client
func (c *WSClient) Endpoint() string { return c.URL }

// Close implements Client
func (c *WSClient) Close() error { return nil }

// Execute sends cmd and waits for the reply with the matching id
func (c *WSClient) Execute(ctx context.Context, cmd Command) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	op := cmd.String()

	conn, resp, err := c.Dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		if resp != nil {
			e := malformed(op, c.URL, fmt.Sprintf("handshake rejected: %s", resp.Status), err)
			e.StatusCode = resp.StatusCode
			return Failure(e)
		}
		return Failure(Classify(err, op, c.URL))
	}
	defer conn.Close()

	// Deadlines unblock ReadMessage if ctx is cancelled by the caller
	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	id := c.nextID.Add(1)
	if err := conn.WriteJSON(Request{ID: id, Cmd: op}); err != nil {
		return Failure(Classify(err, op, c.URL))
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return Failure(Classify(ctx.Err(), op, c.URL))
			}
			return Failure(Classify(err, op, c.URL))
		}
		if msgType != websocket.TextMessage {
			continue
		}
		logging.LogRawReply(op, data)

		var reply Reply
		if err := json.Unmarshal(data, &reply); err != nil {
			return Failure(malformed(op, c.URL, "invalid JSON frame", err))
		}
		if reply.ID != id {
			continue
		}
		if reply.Error != "" {
			return Failure(malformed(op, c.URL, "device reported error: "+strings.TrimSpace(reply.Error), nil))
		}

		on, err := ParseStateValue(reply.State)
		if err != nil {
			return Failure(malformed(op, c.URL, "unparsable reply", err))
		}
		return Success(on)
	}
}
