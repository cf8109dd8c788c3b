// Package utils contains helpers shared across the richprompt packages.
package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvironmentVariable overrides the verbosity-derived log level.
const LogLevelEnvironmentVariable = "RICHPROMPT_LOG_LEVEL"

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr. Verbosity maps 0 to errors only, 1 to warnings,
// 2 to info, and anything higher to debug; the environment variable wins
// when set.
func NewApplicationLogger(verbosity int) (*zap.Logger, error) {
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Encoding = "console"
	loggerConfiguration.OutputPaths = []string{"stderr"}
	loggerConfiguration.DisableCaller = true
	loggerConfiguration.DisableStacktrace = true
	loggerConfiguration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfiguration.EncoderConfig.TimeKey = ""
	loggerConfiguration.EncoderConfig.NameKey = ""
	loggerConfiguration.EncoderConfig.CallerKey = ""
	loggerConfiguration.EncoderConfig.MessageKey = "message"
	loggerConfiguration.EncoderConfig.StacktraceKey = ""
	loggerConfiguration.Level = zap.NewAtomicLevelAt(levelForVerbosity(verbosity))
	return loggerConfiguration.Build()
}

func levelForVerbosity(verbosity int) zapcore.Level {
	if environmentLevel := strings.TrimSpace(os.Getenv(LogLevelEnvironmentVariable)); environmentLevel != "" {
		var parsedLevel zapcore.Level
		if parseError := parsedLevel.Set(strings.ToLower(environmentLevel)); parseError == nil {
			return parsedLevel
		}
	}
	switch verbosity {
	case 0:
		return zapcore.ErrorLevel
	case 1:
		return zapcore.WarnLevel
	case 2:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
