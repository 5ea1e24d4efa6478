package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
)

const (
	// ServiceType is the mDNS service type LED devices advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultResolveTimeout bounds a single lookup
	DefaultResolveTimeout = 3 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 80
)

// Resolver looks up a device by instance name
type Resolver struct {
	// Timeout is the maximum time to wait for the device to answer
	Timeout time.Duration
}

// NewResolver creates a resolver with default settings
func NewResolver() *Resolver {
	return &Resolver{
		Timeout: DefaultResolveTimeout,
	}
}

// Resolve looks up instance and returns the first usable answer
func (r *Resolver) Resolve(ctx context.Context, instance string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if device := parseServiceEntry(entry, instance); device != nil {
				select {
				case deviceChan <- device:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Lookup(ctx, instance, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to look up mDNS instance %s: %w", instance, err)
	}

	select {
	case device := <-deviceChan:
		logging.Info("Resolved device", zap.String("device", device.String()))
		return device, nil
	case <-ctx.Done():
		// The finder goroutine may have delivered just before cancelling
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("device %s not found within %v", instance, r.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry is for another instance or carries no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry, instance string) *Device {
	if entry == nil || !strings.EqualFold(unescapeInstance(entry.Instance), instance) {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		Instance:   instance,
		Hostname:   entry.HostName,
		IP:         ip,
		Port:       port,
		Metadata:   metadata,
		ResolvedAt: time.Now(),
	}
}

// unescapeInstance undoes DNS-SD escaping of spaces and dots
func unescapeInstance(s string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".").Replace(s)
}

// Advertise registers instance on port until the returned stop function is
// called. txt entries are "key=value" pairs.
func Advertise(instance string, port int, txt []string) (stop func(), err error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to advertise %s: %w", instance, err)
	}

	logging.Info("Advertising device over mDNS",
		zap.String("instance", instance),
		zap.Int("port", port),
	)
	return server.Shutdown, nil
}
