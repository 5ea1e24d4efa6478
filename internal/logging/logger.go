package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "LEDPANEL_LOG_LEVEL"

// Initialize creates a new logger with the specified level, writing to file
// (stderr when file is empty).
// If level is empty, it checks LEDPANEL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level, file string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := "stderr"
	if file != "" {
		output = file
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if file == "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogCommand logs a completed device command
func LogCommand(command, endpoint string, reportedOn bool, elapsed time.Duration) {
	Info("Command completed",
		zap.String("command", command),
		zap.String("endpoint", endpoint),
		zap.Bool("reported_on", reportedOn),
		zap.Duration("elapsed", elapsed),
	)
}

// LogTransportFailure logs a failed device command with its classified kind
func LogTransportFailure(command, endpoint, kind string, err error, elapsed time.Duration) {
	Warn("Command failed",
		zap.String("command", command),
		zap.String("endpoint", endpoint),
		zap.String("error_kind", kind),
		zap.Error(err),
		zap.Duration("elapsed", elapsed),
	)
}

// LogStateChange logs a transition of the displayed device state
func LogStateChange(intent string, wasOn, isOn, wasConnected, isConnected bool) {
	Info("Device state changed",
		zap.String("intent", intent),
		zap.Bool("led_before", wasOn),
		zap.Bool("led_after", isOn),
		zap.Bool("connected_before", wasConnected),
		zap.Bool("connected_after", isConnected),
	)
}

// LogInputDropped logs an input event discarded because the queue was full
func LogInputDropped(key, phase string, dropped uint64) {
	Warn("Input queue full, event dropped",
		zap.String("key", key),
		zap.String("phase", phase),
		zap.Uint64("dropped_total", dropped),
	)
}

// LogRawReply logs a raw device reply (useful for debugging firmware issues)
func LogRawReply(command string, data []byte) {
	Debug("Raw device reply",
		zap.String("command", command),
		zap.Int("length", len(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	// Limit to first 256 bytes
	if len(data) > 256 {
		data = data[:256]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
