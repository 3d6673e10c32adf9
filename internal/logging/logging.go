// Package logging builds the zap logger shared by the CLI, the pipeline and
// the MCP server.
//
// Logs always go to stderr: stdout carries MCP frames or piped image data.
// An optional rotating log file receives the same entries as JSON.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLevel = "IMAGE_STRIP_LOG_LEVEL"
	EnvFile  = "IMAGE_STRIP_LOG_FILE"
)

// Rotation settings for the log file.
const (
	DefaultMaxSizeMB  = 20
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
)

// Config selects where and how much is logged.
type Config struct {
	// Level is the minimum level written to every sink.
	Level zapcore.Level

	// FilePath enables a rotating JSON log file when non-empty.
	FilePath string

	// Console receives human-readable entries. Nil means os.Stderr.
	Console zapcore.WriteSyncer
}

// ConfigFromEnv reads the log level and file from the environment.
// An unset or unknown level falls back to info.
func ConfigFromEnv() Config {
	return Config{
		Level:    ParseLevel(os.Getenv(EnvLevel), zapcore.InfoLevel),
		FilePath: strings.TrimSpace(os.Getenv(EnvFile)),
	}
}

// ParseLevel parses a case-insensitive level name. Valid names are debug,
// info, warn, warning and error; anything else yields def.
func ParseLevel(s string, def zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return def
	}
}

// New builds a logger for cfg. The console sink uses the console encoder;
// the file sink, when configured, is teed in with the JSON encoder.
func New(cfg Config) *zap.Logger {
	console := cfg.Console
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), console, cfg.Level)
	if cfg.FilePath != "" {
		file := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), NewFileWriter(cfg.FilePath), cfg.Level)
		core = zapcore.NewTee(core, file)
	}
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// NewFileWriter returns a size-rotated, compressed log file writer.
func NewFileWriter(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	})
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := fileEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	return cfg
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
