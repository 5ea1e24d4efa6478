package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Kind represents the category of a transport failure
type Kind int

const (
	// KindNetwork covers DNS failures, unreachable hosts and dropped connections
	KindNetwork Kind = iota
	// KindTimeout indicates the device did not answer within the timeout
	KindTimeout
	// KindRefused indicates the device refused the connection
	KindRefused
	// KindMalformedReply indicates the device answered with something that is not a state
	KindMalformedReply
)

// String returns the name used in logs and metrics
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindRefused:
		return "refused"
	case KindMalformedReply:
		return "malformed_reply"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified transport failure
type Error struct {
	Kind       Kind   // Category of failure
	Op         string // Command that failed ("toggle", "query-state")
	Endpoint   string // Where the command was sent
	Message    string // Human-readable detail
	StatusCode int    // HTTP status code (if applicable)
	Err        error  // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Endpoint, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify analyzes a low-level error from a call and returns a classified *Error.
// An error that is already a *Error is returned as is.
func Classify(err error, op, endpoint string) *Error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		return te
	}

	e := &Error{Op: op, Endpoint: endpoint, Err: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		e.Kind = KindTimeout
		e.Message = "device did not respond in time"
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Kind = KindRefused
		e.Message = "device refused connection"
	default:
		e.Kind = KindNetwork
		e.Message = networkMessage(err)
	}
	return e
}

func networkMessage(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
	}
	switch {
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "host unreachable"
	case errors.Is(err, syscall.ENETUNREACH):
		return "network unreachable"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op != "" {
		return strings.ToLower(urlErr.Op) + " failed"
	}
	return "network error"
}

// malformed builds a KindMalformedReply error
func malformed(op, endpoint, message string, err error) *Error {
	return &Error{
		Kind:     KindMalformedReply,
		Op:       op,
		Endpoint: endpoint,
		Message:  message,
		Err:      err,
	}
}

// KindOf returns the kind of a transport error, or KindNetwork for anything else
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindNetwork
}

// IsTimeout checks if an error is a transport timeout
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindTimeout
}

// IsRefused checks if an error is a refused connection
func IsRefused(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindRefused
}

// IsMalformed checks if an error is a malformed device reply
func IsMalformed(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindMalformedReply
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var te *Error
	if !errors.As(err, &te) {
		return err.Error()
	}

	switch te.Kind {
	case KindTimeout:
		return "Device not responding (timeout)"
	case KindRefused:
		return "Device refused connection"
	case KindMalformedReply:
		if te.StatusCode != 0 {
			return fmt.Sprintf("Device error (HTTP %d)", te.StatusCode)
		}
		return "Unexpected reply from device"
	default:
		return "Network error - check connection"
	}
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var te *Error
	if !errors.As(err, &te) {
		return "An unexpected error occurred. Please try again."
	}

	switch te.Kind {
	case KindTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the device is powered on",
			"  • Verify the panel and the device share a network",
			"  • Try a longer --timeout (at most 2s)",
		}, "\n")

	case KindRefused:
		return strings.Join([]string{
			"The device refused the connection.",
			"Troubleshooting:",
			"  • Verify the port number",
			"  • The device firmware may not be serving requests - try rebooting it",
			"  • Check that --transport matches what the firmware speaks",
		}, "\n")

	case KindMalformedReply:
		return strings.Join([]string{
			"The device answered, but not with an LED state.",
			"Troubleshooting:",
			"  • Check that the endpoint points at the LED firmware",
			"  • Run with --log-level debug to see the raw reply",
		}, "\n")

	default:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Verify the device address is correct",
			"  • Check your network connection",
			"  • Try pinging the device: ping " + hostOnly(te.Endpoint),
		}, "\n")
	}
}

func hostOnly(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
	}
	if host, _, err := net.SplitHostPort(endpoint); err == nil {
		return host
	}
	return endpoint
}
