package logging

import "go.uber.org/zap"

// ZapAdapter wraps a zap logger to implement the Logger interface, for
// deployments standardized on go.uber.org/zap. Messages are formatted
// printf-style like the other adapters.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapAdapter creates a Logger from *zap.Logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{sugar: logger.Sugar()}
}

// Debug logs a debug message.
func (z *ZapAdapter) Debug(msg string, args ...any) { z.sugar.Debugf(msg, args...) }

// Info logs an informational message.
func (z *ZapAdapter) Info(msg string, args ...any) { z.sugar.Infof(msg, args...) }

// Warn logs a warning message.
func (z *ZapAdapter) Warn(msg string, args ...any) { z.sugar.Warnf(msg, args...) }

// Error logs an error message.
func (z *ZapAdapter) Error(msg string, args ...any) { z.sugar.Errorf(msg, args...) }

// Sync flushes buffered log entries; call before process exit.
func (z *ZapAdapter) Sync() error { return z.sugar.Sync() }

var _ Logger = (*ZapAdapter)(nil)
