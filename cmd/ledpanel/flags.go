package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/config"
	"github.com/muurk/ledpanel/internal/discovery"
	"github.com/muurk/ledpanel/internal/logging"
)

// Persistent flags shared by the panel and the one-shot commands
var (
	configPath  string
	host        string
	port        int
	instance    string
	transportID string
	timeoutMS   int
	inputSource string
	logLevel    string
	logFile     string
	metricsAddr string
)

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Config file (.yaml or .toml; default $XDG_CONFIG_HOME/ledpanel/config.yaml)")
	f.StringVar(&host, "host", "", "Device host or IP address")
	f.IntVar(&port, "port", 0, "Device port")
	f.StringVar(&instance, "instance", "", "mDNS instance name to resolve instead of --host")
	f.StringVar(&transportID, "transport", "", "Transport (http, ws, mqtt)")
	f.IntVar(&timeoutMS, "timeout", 0, "Per-command timeout in milliseconds (max 2000)")
	f.StringVar(&inputSource, "input", "", "Input source (keyboard, gpio)")
	f.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; empty = silent)")
	f.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
}

// loadConfig loads the config file and environment, applies any flag the
// user set explicitly and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	applyFlags(cfg, cmd.Flags())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, fs *pflag.FlagSet) {
	if fs.Changed("host") {
		cfg.Endpoint.Host = host
		cfg.Endpoint.Instance = ""
	}
	if fs.Changed("port") {
		cfg.Endpoint.Port = port
	}
	if fs.Changed("instance") {
		cfg.Endpoint.Instance = instance
	}
	if fs.Changed("transport") {
		cfg.Transport.Kind = transportID
	}
	if fs.Changed("timeout") {
		cfg.Transport.TimeoutMS = timeoutMS
	}
	if fs.Changed("input") {
		cfg.Input.Source = inputSource
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if fs.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
}

// resolveEndpoint looks up the mDNS instance when one is configured. A failed
// lookup falls back to the configured host so the panel still starts and
// shows "Disconnected"; without a host to fall back to it is an error.
func resolveEndpoint(ctx context.Context, ep config.Endpoint) (config.Endpoint, error) {
	if ep.Instance == "" {
		return ep, nil
	}

	ctx, cancel := context.WithTimeout(ctx, discovery.DefaultResolveTimeout+time.Second)
	defer cancel()

	device, err := discovery.NewResolver().Resolve(ctx, ep.Instance)
	if err != nil {
		if ep.Host == "" {
			return ep, fmt.Errorf("failed to resolve %s and no fallback host is configured: %w", ep.Instance, err)
		}
		logging.Warn("mDNS lookup failed, using configured host",
			zap.String("instance", ep.Instance),
			zap.String("host", ep.Host),
			zap.Error(err),
		)
		return ep, nil
	}

	logging.Info("Resolved device", zap.String("device", device.String()))
	return device.Endpoint(), nil
}
