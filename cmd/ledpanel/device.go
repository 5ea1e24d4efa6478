package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/ledpanel/internal/controller"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/state"
	"github.com/muurk/ledpanel/internal/transport"
	"github.com/muurk/ledpanel/internal/ui"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Query the LED state once",
	Long: `Ask the device for its LED state and print the result.

Uses the same transport, timeout and error handling as the panel.`,
	Example: `  ledpanel state
  ledpanel state --host 10.0.0.7 --transport ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceCommand(cmd, controller.Refresh)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the LED once",
	Long: `Toggle the LED and print the state the device reports.

Uses the same transport, timeout and error handling as the panel.`,
	Example: `  ledpanel toggle
  ledpanel toggle --host 10.0.0.7 --timeout 1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeviceCommand(cmd, controller.Toggle)
	},
}

func runDeviceCommand(cmd *cobra.Command, intent controller.Intent) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
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
	out := controller.New(st, client, nil).Handle(ctx, intent)
	snap := st.Snapshot()

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader(intentTitle(intent), "ledpanel "+cmd.Name(), []ui.Detail{
		{Key: "Device", Value: endpoint.String()},
		{Key: "Transport", Value: client.Name()},
	})

	if !out.OK() {
		p.PrintError(intentTitle(intent)+" failed", errors.New(transport.ShortMessage(out.Err)), troubleshootingTips(out.Err))
		return fmt.Errorf("%s: %w", intent, out.Err)
	}

	p.PrintSuccess("LED is "+state.Label(snap.ActuatorOn), []ui.Detail{
		{Key: "LED", Value: state.Label(snap.ActuatorOn)},
		{Key: "Status", Value: snap.StatusText},
	})
	return nil
}

func intentTitle(intent controller.Intent) string {
	if intent == controller.Toggle {
		return "LED toggle"
	}
	return "LED state"
}

// troubleshootingTips extracts the bullet points of the transport's hint
func troubleshootingTips(err error) []string {
	var tips []string
	for _, line := range strings.Split(transport.TroubleshootingHint(err), "\n") {
		if tip, ok := strings.CutPrefix(line, "  • "); ok {
			tips = append(tips, tip)
		}
	}
	return tips
}
