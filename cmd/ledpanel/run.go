package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/config"
	"github.com/muurk/ledpanel/internal/controller"
	"github.com/muurk/ledpanel/internal/events"
	"github.com/muurk/ledpanel/internal/input"
	"github.com/muurk/ledpanel/internal/led"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/loop"
	"github.com/muurk/ledpanel/internal/metrics"
	"github.com/muurk/ledpanel/internal/render"
	"github.com/muurk/ledpanel/internal/state"
	"github.com/muurk/ledpanel/internal/systemd"
	"github.com/muurk/ledpanel/internal/transport"
	"github.com/muurk/ledpanel/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the control panel (default)",
	Long: `Start the interactive LED control panel.

The panel queries the LED state once at startup, then redraws on every key
press and timer tick. OK (enter/space, or the GPIO confirm button) toggles
the LED; Back (esc/backspace/q, or the GPIO back button) exits.

While the panel owns the terminal, logs are written to --log-file, or to
ledpanel.log in the config directory when only --log-level is given.
Without a terminal (or with --headless) the panel draws nothing, logs state
changes to stderr and takes input from the GPIO buttons only.`,
	Example: `  # Control the default device over HTTP
  ledpanel

  # Another device, WebSocket transport, debug logging
  ledpanel run --host 10.0.0.7 --port 80 --transport ws --log-level debug

  # Resolve the device over mDNS and read GPIO buttons
  ledpanel run --instance esp32-led --input gpio

  # Expose Prometheus metrics
  ledpanel run --metrics-addr :9102

  # Under a systemd unit, with GPIO buttons and no terminal
  ledpanel run --input gpio --headless --log-level info`,
	RunE: runPanel,
}

// headless forces the panel to run without the terminal UI
var headless bool

func addPanelFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI (implied when stdout is not a terminal; requires --input gpio)")
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tty := ui.IsTerminal() && !headless

	logFile := cfg.Logging.File
	if tty {
		logFile = panelLogFile(cfg)
	}
	if err := logging.Initialize(cfg.Logging.Level, logFile); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := input.NewQueue(input.QueueCapacity)

	surface, err := newSurface(cfg, queue, tty)
	if err != nil {
		return err
	}

	if cfg.Input.Source == config.InputGPIO {
		buttons, err := input.NewGPIOButtons(cfg.Input.GPIO, queue)
		if err != nil {
			return fmt.Errorf("failed to open GPIO buttons: %w", err)
		}
		defer buttons.Close()
	}

	runErr := servePanel(ctx, cfg, queue, surface)
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// panelSurface is what the event loop draws on
type panelSurface interface {
	loop.Display
	Start()
	Stop() error
}

// newSurface returns the terminal UI when tty is set. Without a terminal
// the panel runs headless and only GPIO buttons can drive it.
func newSurface(cfg *config.Config, q *input.Queue, tty bool) (panelSurface, error) {
	if tty {
		return ui.NewTerminal(q, tea.WithAltScreen(), tea.WithoutSignalHandler()), nil
	}
	if cfg.Input.Source != config.InputGPIO {
		return nil, errors.New("keyboard input needs a terminal; use --input gpio to run headless")
	}
	logging.Info("No terminal, running headless")
	return ui.NewHeadless(), nil
}

// servePanel runs the event loop on surface until Back, the end of input or
// ctx cancellation.
func servePanel(ctx context.Context, cfg *config.Config, queue *input.Queue, surface panelSurface) error {
	endpoint, err := resolveEndpoint(ctx, cfg.Endpoint)
	if err != nil {
		return err
	}

	client, err := transport.New(cfg.Transport, endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	st := state.New()
	bus := events.New()
	defer subscribeObservers(bus)()

	mirror := led.NewManager(led.New(cfg.MirrorLED), bus)
	mirror.Start()
	defer mirror.Stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logging.Error("Metrics listener failed", zap.String("addr", cfg.Metrics.Addr), zap.Error(err))
			}
		}()
	}

	surface.Start()

	logging.Info("Panel starting",
		zap.String("endpoint", endpoint.String()),
		zap.String("transport", client.Name()),
		zap.String("input", cfg.Input.Source),
	)
	systemd.Ready()

	panel := loop.New(st, controller.New(st, client, bus), queue, surface, render.Layout{EndpointLabel: endpoint.Host})
	runErr := panel.Run(ctx)

	systemd.Stopping()
	if err := surface.Stop(); err != nil {
		return fmt.Errorf("display failed: %w", err)
	}
	return runErr
}

// panelLogFile keeps log output off the terminal the panel is drawing on
func panelLogFile(cfg *config.Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	if cfg.Logging.Level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		return ""
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return os.DevNull
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return os.DevNull
	}
	return filepath.Join(dir, "ledpanel.log")
}

// subscribeObservers attaches the log and the metrics gauges to the bus
func subscribeObservers(bus *events.Bus) func() {
	unsubState := bus.Subscribe(func(e events.StateChangedEvent) {
		metrics.SetDeviceState(e.Current.ActuatorOn, e.Current.Connected)
		if e.Changed() {
			logging.LogStateChange(e.Intent,
				e.Previous.ActuatorOn, e.Current.ActuatorOn,
				e.Previous.Connected, e.Current.Connected,
			)
			systemd.Status(e.Current.StatusText)
		}
	})

	unsubFailed := bus.Subscribe(func(e events.CommandFailedEvent) {
		logging.Warn("Command failed",
			zap.String("intent", e.Intent),
			zap.String("error_kind", e.Kind),
			zap.String("reason", e.Reason),
		)
	})

	return func() {
		unsubState()
		unsubFailed()
	}
}
