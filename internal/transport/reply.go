package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Reply is the JSON body exchanged with the device. HTTP replies use only
// State; WebSocket frames also carry ID and, on device-side failure, Error.
type Reply struct {
	ID    uint64 `json:"id,omitempty"`
	State string `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// Request is a WebSocket command frame.
type Request struct {
	ID  uint64 `json:"id"`
	Cmd string `json:"cmd"`
}

// errUnknownState is returned for state values other than ON and OFF
var errUnknownState = errors.New("unknown state value")

// ParseStateValue maps "ON"/"OFF" (any case, surrounding space ignored) to a bool.
func ParseStateValue(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON":
		return true, nil
	case "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("%w %q", errUnknownState, s)
	}
}

// ParseStateBody parses an HTTP or MQTT reply body: either a JSON Reply or a
// bare ON/OFF token.
func ParseStateBody(body []byte) (bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return false, errors.New("empty reply")
	}

	if trimmed[0] != '{' {
		return ParseStateValue(string(trimmed))
	}

	var r Reply
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return false, fmt.Errorf("invalid JSON reply: %w", err)
	}
	if r.Error != "" {
		return false, fmt.Errorf("device reported error: %s", r.Error)
	}
	return ParseStateValue(r.State)
}

// StateValue is the inverse of ParseStateValue.
func StateValue(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
