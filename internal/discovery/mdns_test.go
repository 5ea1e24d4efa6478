package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name: "matching instance with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
				HostName:      "esp32-led.local.",
				Port:          1234,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.0.187")},
				Text:          []string{"transport=http"},
			},
			wantIP:   "192.168.0.187",
			wantPort: 1234,
		},
		{
			name: "case-insensitive match",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ESP32-LED"},
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 80,
		},
		{
			name: "no port specified (should default to 80)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name: "other instance",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "printer"},
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
				Port:          80,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only device",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
				Port:          80,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry, "esp32-led")

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Instance != "esp32-led" {
				t.Errorf("Instance = %v, want esp32-led", device.Instance)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "esp32-led"},
		AddrIPv4:      []net.IP{net.ParseIP("192.168.0.187")},
		Text:          []string{"transport=ws", "fw=1.2=beta", "flag"},
	}

	device := parseServiceEntry(entry, "esp32-led")
	if device == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	tests := map[string]string{
		"transport": "ws",
		"fw":        "1.2=beta",
		"flag":      "",
		"missing":   "",
	}
	for key, want := range tests {
		if got := device.GetMetadata(key); got != want {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestUnescapeInstance(t *testing.T) {
	if got := unescapeInstance(`Desk\ LED\.v2`); got != "Desk LED.v2" {
		t.Errorf("unescapeInstance() = %q, want %q", got, "Desk LED.v2")
	}
}

func TestDevice_Endpoint(t *testing.T) {
	d := &Device{Instance: "esp32-led", Hostname: "esp32-led.local.", IP: "10.0.0.9", Port: 1234, ResolvedAt: time.Now()}

	ep := d.Endpoint()
	if ep.Address() != "10.0.0.9:1234" {
		t.Errorf("Endpoint().Address() = %s, want 10.0.0.9:1234", ep.Address())
	}
	if ep.Instance != "esp32-led" {
		t.Errorf("Endpoint().Instance = %s, want esp32-led", ep.Instance)
	}
	if want := "LED device esp32-led (esp32-led.local.) at 10.0.0.9:1234"; d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}
}

func TestDevice_GetMetadata_Nil(t *testing.T) {
	d := &Device{}
	if d.GetMetadata("anything") != "" {
		t.Error("GetMetadata() on nil map should return empty string")
	}
}

func TestNewResolver(t *testing.T) {
	if NewResolver().Timeout != DefaultResolveTimeout {
		t.Errorf("Timeout = %v, want %v", NewResolver().Timeout, DefaultResolveTimeout)
	}
}
