package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"energydash/config"
)

const serviceName = "energydash"

// New builds the process logger: a stderr core in the configured format and, when
// OutputFile is set, a rotating JSON file core. Every entry carries service and env.
func New(opts config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cores := []zapcore.Core{stderrCore(opts, level)}
	if opts.OutputFile != "" {
		core, err := fileCore(opts.OutputFile, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", opts.Environment),
		),
	), nil
}

// stderrCore writes human-readable entries in dev or with format "console", JSON otherwise.
// stdout is left to command output.
func stderrCore(opts config.LogConfig, level zapcore.Level) zapcore.Core {
	var encoder zapcore.Encoder
	if opts.Environment == "dev" || opts.Format == "console" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	}
	return zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
}

func fileCore(path string, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB before rotation
		MaxBackups: 5,
		MaxAge:     7, // days
		Compress:   true,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), writer, level), nil
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}
