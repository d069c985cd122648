package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging for patch runs.
type Logger struct {
	zap *zap.Logger
}

// New creates a Logger that writes to a file.
// If logPath is empty, logging is disabled.
// If development is true, uses console encoding with readable output;
// otherwise JSON.
func New(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// Zap exposes the underlying logger for components that take one directly.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Close syncs the logger (should be called on shutdown).
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// PatchApplied logs a completed patch run.
func (l *Logger) PatchApplied(files int, fuzz int, duration time.Duration) {
	l.zap.Info("patch applied",
		zap.Int("files", files),
		zap.Int("fuzz", fuzz),
		zap.Duration("duration", duration),
	)
}

// PatchFailed logs a rejected patch with the reason shown to the caller.
func (l *Logger) PatchFailed(reason string, duration time.Duration) {
	l.zap.Info("patch failed",
		zap.String("reason", reason),
		zap.Duration("duration", duration),
	)
}

// FileChanged logs one applied file effect.
func (l *Logger) FileChanged(action, path string) {
	l.zap.Debug("file changed",
		zap.String("action", action),
		zap.String("path", path),
	)
}

// Error logs an error.
func (l *Logger) Error(msg string, err error) {
	l.zap.Error(msg, zap.Error(err))
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}
