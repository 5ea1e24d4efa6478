package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/ledpanel/internal/emulator"
	"github.com/muurk/ledpanel/internal/logging"
)

// Emulator flags
var (
	listenAddr string
	faultName  string
	advertise  string
	startOn    bool
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run the reference LED device emulator",
	Long: `Run a software LED device that speaks the panel's HTTP and WebSocket
protocols. Useful for trying the panel without hardware and for testing
how it handles misbehaving devices.

Faults:
  none     answer normally
  garbage  answer every command with a non-state reply
  silent   accept commands but never answer (the panel times out)`,
	Example: `  # Emulate on the default device port
  ledpanel emulate

  # Emulate a hung device on another port
  ledpanel emulate --listen 127.0.0.1:8080 --fault silent

  # Advertise over mDNS so 'ledpanel run --instance esp32-led' finds it
  ledpanel emulate --advertise esp32-led`,
	RunE: runEmulate,
}

func init() {
	emulateCmd.Flags().StringVar(&listenAddr, "listen", ":1234", "Address to listen on")
	emulateCmd.Flags().StringVar(&faultName, "fault", "none", "Fault mode (none, garbage, silent)")
	emulateCmd.Flags().StringVar(&advertise, "advertise", "", "mDNS instance name to advertise (empty = no mDNS)")
	emulateCmd.Flags().BoolVar(&startOn, "on", false, "Start with the LED on")
}

func runEmulate(cmd *cobra.Command, args []string) error {
	fault, err := emulator.ParseFault(faultName)
	if err != nil {
		return err
	}

	h, p, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return fmt.Errorf("invalid --listen address %q: %w", listenAddr, err)
	}
	portNum, err := strconv.Atoi(p)
	if err != nil {
		return fmt.Errorf("invalid --listen port %q: %w", p, err)
	}

	level := logLevel
	if level == "" {
		level = "info"
	}
	if err := logging.Initialize(level, logFile); err != nil {
		return err
	}
	defer logging.Sync()

	dev := emulator.NewDevice()
	dev.Set(startOn)
	dev.SetFault(fault)

	srv := emulator.New(&emulator.Config{Host: h, Port: portNum, Advertise: advertise}, dev)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Emulating LED device on %s (fault: %s). Press Ctrl+C to stop.\n", listenAddr, fault)
	return srv.Start(ctx)
}
