// Package discovery resolves the panel's one LED device by its mDNS instance
// name, and advertises the device emulator the same way.
//
// Only a single, configured instance is ever looked up; there is no
// browsing for unknown devices.
//
// # Usage Example
//
//	resolver := discovery.NewResolver()
//	device, err := resolver.Resolve(ctx, "esp32-led")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(device.Endpoint().Address())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The device must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
