package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig defines the zap backend configuration
type ZapConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
	Output string // "stdout", "stderr", file path
	Caller bool   // Include caller information
}

// DefaultZapConfig returns the shell's default zap configuration
func DefaultZapConfig() ZapConfig {
	return ZapConfig{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// NewZapLogger builds a zap-backed Logger; the returned func flushes and releases the backend
func NewZapLogger(prefix string, config ZapConfig) (Logger, func(), error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch config.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	closeOutput := func() {}
	switch config.Output {
	case "stdout":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stdout))
	case "stderr", "":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	default:
		ws, closeFn, err := zap.Open(config.Output)
		if err != nil {
			return nil, nil, err
		}
		writeSyncer = ws
		closeOutput = closeFn
	}

	opts := []zap.Option{}
	if config.Caller {
		// Skips the wrapper's level method and logf; exact for the root logger, child loggers report a frame in logging.go
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	zapLogger := zap.New(zapcore.NewCore(encoder, writeSyncer, level), opts...)
	cleanup := func() {
		_ = zapLogger.Sync()
		closeOutput()
	}
	return NewZapLoggerFromCore(prefix, zapLogger), cleanup, nil
}

// NewZapLoggerFromCore adapts an existing zap logger
func NewZapLoggerFromCore(prefix string, zapLogger *zap.Logger) Logger {
	sugar := zapLogger.Sugar()
	return NewLogger(prefix, LogFuncs{
		Debugf: sugar.Debugf,
		Infof:  sugar.Infof,
		Warnf:  sugar.Warnf,
		Errorf: sugar.Errorf,
	})
}
