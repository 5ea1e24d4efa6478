// Package config provides configuration management for the LED control panel.
//
// The panel reads a single configuration file at startup describing the one
// remote endpoint it controls, which transport to use, where input comes
// from, and the ambient settings (logging, metrics, mirror LED). The endpoint
// is fixed for the lifetime of the process; there is no runtime reload.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ledpanel/config.yaml or $HOME/.config/ledpanel/config.yaml
//   - macOS: $HOME/.config/ledpanel/config.yaml
//   - Windows: %LOCALAPPDATA%\ledpanel\config.yaml
//
// A file whose name ends in ".toml" is decoded as TOML instead of YAML.
//
// # Precedence
//
// Values are resolved as: command-line flags > LEDPANEL_* environment
// variables > configuration file > built-in defaults. Flags are applied by
// the command layer after Load returns.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Endpoint.Address())
//
// # Security
//
// MQTT credentials may be stored in the file. Save writes it with 0600
// permissions.
package config
