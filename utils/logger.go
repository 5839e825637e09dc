package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates the command-line logger, debug level when verbose.
// It tries a console logger on stderr first, then zap's production
// config, and finally gives up and discards output.
func NewLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	configs := []zap.Config{
		consoleConfig(),
		zap.NewProductionConfig(),
	}

	for _, cfg := range configs {
		cfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := cfg.Build()
		if err == nil {
			return logger
		}
	}

	return zap.NewNop()
}

func consoleConfig() zap.Config {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.TimeKey = ""
	encoder.CallerKey = ""

	return zap.Config{
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
}
