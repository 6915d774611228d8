package core

import "go.uber.org/zap"

// ZapLogger adapts a zap sugared logger to the service Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps the provided zap logger. A nil logger falls back to a
// production-configured instance.
func NewZapLogger(base *zap.Logger) (*ZapLogger, error) {
	if base == nil {
		var err error
		base, err = zap.NewProduction()
		if err != nil {
			return nil, err
		}
	}
	return &ZapLogger{sugar: base.Sugar()}, nil
}

// Debug logs at debug level with alternating key-value context.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs at info level with alternating key-value context.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs at warn level with alternating key-value context.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs at error level with alternating key-value context.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
