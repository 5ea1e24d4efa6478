package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "ledpanel"
	configFile = "config.yaml"

	// EnvPrefix prefixes every environment override (e.g. LEDPANEL_HOST)
	EnvPrefix = "LEDPANEL_"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/ledpanel or $HOME/.config/ledpanel
//   - macOS: $HOME/.config/ledpanel (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\ledpanel
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration file at path (the default location when path
// is empty) and applies environment overrides. A missing file at the default
// location yields defaults; a missing file at an explicit path is an error.
//
// Load does not validate: callers overlay their flags first and then call
// Validate on the result.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	cfg, err := loadFile(path, explicit)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile decodes path over the defaults.
func loadFile(path string, mustExist bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !mustExist {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}

// applyEnv overlays LEDPANEL_* variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get("HOST"); ok {
		cfg.Endpoint.Host = v
	}
	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPORT %q: %w", EnvPrefix, v, err)
		}
		cfg.Endpoint.Port = port
	}
	if v, ok := get("INSTANCE"); ok {
		cfg.Endpoint.Instance = v
	}
	if v, ok := get("TRANSPORT"); ok {
		cfg.Transport.Kind = strings.ToLower(v)
	}
	if v, ok := get("TIMEOUT_MS"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT_MS %q: %w", EnvPrefix, v, err)
		}
		cfg.Transport.TimeoutMS = ms
	}
	if v, ok := get("MQTT_BROKER"); ok {
		cfg.Transport.MQTT.Broker = v
	}
	if v, ok := get("INPUT"); ok {
		cfg.Input.Source = strings.ToLower(v)
	}
	if v, ok := get("METRICS_ADDR"); ok {
		cfg.Metrics.Addr = v
	}
	if v, ok := get("MIRROR_LED"); ok {
		cfg.MirrorLED = v
	}

	return nil
}

// Save writes the configuration to path (the default location when empty).
// Performs an atomic write to prevent corruption on crash.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.marshal(path)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// marshal encodes the config in the format implied by path, with a header comment.
func (c *Config) marshal(path string) ([]byte, error) {
	var body []byte
	var err error
	if isTOML(path) {
		body, err = toml.Marshal(c)
	} else {
		body, err = yaml.Marshal(c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# LED control panel configuration\n")
	buf.WriteString("# Location: " + path + "\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// Marshal returns the config as YAML, as written by Save.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
