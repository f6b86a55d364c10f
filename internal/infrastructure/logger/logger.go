package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/erp/ordering/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DefaultConfig returns a configuration suitable for development
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stdout"}
}

// FromLogConfig converts the application log section
func FromLogConfig(cfg config.LogConfig) Config {
	return Config{Level: cfg.Level, Format: cfg.Format, Output: cfg.Output}
}

// New creates a zap logger. It fails when a file output cannot be opened.
func New(cfg Config) (*zap.Logger, error) {
	writer, err := createWriter(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(createEncoder(cfg.Format), writer, ParseLevel(cfg.Level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// NewForService creates the root logger of a service, tagged with its name
// and environment
func NewForService(cfg *config.Config) (*zap.Logger, error) {
	l, err := New(FromLogConfig(cfg.Log))
	if err != nil {
		return nil, err
	}
	return l.With(
		zap.String("service", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	), nil
}

// ParseLevel converts a level name, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func createEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if strings.EqualFold(format, "console") {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func createWriter(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", output, err)
		}
		return zapcore.AddSync(file), nil
	}
}
