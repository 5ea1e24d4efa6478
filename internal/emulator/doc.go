// Package emulator implements a reference LED device that speaks the panel's
// HTTP and WebSocket wire protocol.
//
// It exists for bench use (ledpanel emulate) and for tests that need a real
// device on the other end of a socket. The emulated LED starts off and only
// changes on toggle commands.
//
// # Faults
//
// A Device can be switched into a fault mode to exercise the panel's failure
// handling:
//   - FaultNone: normal replies
//   - FaultGarbage: replies that are not a state
//   - FaultSilent: requests are held until the client gives up
//
// # Usage Example
//
//	srv := emulator.New(&emulator.Config{Host: "127.0.0.1", Port: 1234}, emulator.NewDevice())
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package emulator
