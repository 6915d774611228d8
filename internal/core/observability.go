package core

import (
	"context"
	"time"

	"rentcore/pkg/domain"
)

// Logger captures the minimal structured logging surface used by the service.
// Key-value pairs follow the message, alternating key then value.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the service with the current time so tests can pin it.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns the time reported by the wrapped function.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder receives one observation per completed service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// Tracer opens spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan terminates a single traced operation.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// AuditStatus marks an audit entry as a success or a failure.
type AuditStatus string

// Audit entry statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed service operation for the audit trail.
type AuditEntry struct {
	Operation string            `json:"operation"`
	Entity    domain.EntityType `json:"entity"`
	Action    domain.Action     `json:"action"`
	EntityID  string            `json:"entity_id,omitempty"`
	Status    AuditStatus       `json:"status"`
	Error     string            `json:"error,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// AuditRecorder receives audit entries emitted by the service.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type serviceOptions struct {
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
}

// ServiceOption customizes service construction.
type ServiceOption func(*serviceOptions)

// WithLogger installs a logger for operation-level diagnostics.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetricsRecorder installs a metrics sink for operation timings.
func WithMetricsRecorder(metrics MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithTracer installs a tracer that wraps every service operation in a span.
func WithTracer(tracer Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit sink for the operation trail.
func WithAuditRecorder(audit AuditRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if audit != nil {
			o.audit = audit
		}
	}
}
