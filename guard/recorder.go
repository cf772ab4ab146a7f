package guard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vkguard/vkguard/observe"
)

// Recorder writes the audit trail of guarded calls. Every call outcome is
// recorded exactly once: a request log entry always, an error log entry on
// failure, plus structured log, metric, and span emission. Repository write
// failures are logged and swallowed so the audit trail never fails a call.
type Recorder struct {
	repo    Repository
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
	service string
}

// RecorderConfig configures a Recorder. Nil observability components default
// to noops; a nil Repository disables audit persistence.
type RecorderConfig struct {
	Repository Repository
	Logger     observe.Logger
	Metrics    observe.Metrics
	Tracer     observe.Tracer
	Service    string
}

// NewRecorder creates a Recorder from the given configuration.
func NewRecorder(config RecorderConfig) *Recorder {
	logger := config.Logger
	if logger == nil {
		logger = observe.NewNoopLogger()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = observe.NewNoopMetrics()
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = observe.NewNoopTracer()
	}

	return &Recorder{
		repo:    config.Repository,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		service: config.Service,
	}
}

// Outcome describes a completed call for recording.
type Outcome struct {
	Operation string
	Duration  time.Duration
	Err       error
	Attempts  int
	CacheHit  bool
}

// StartSpan opens a span for the operation. The returned span must be passed
// to EndSpan once the call completes.
func (r *Recorder) StartSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return r.tracer.StartSpan(ctx, r.meta(operation))
}

// EndSpan closes the span, recording the call error if any.
func (r *Recorder) EndSpan(span trace.Span, err error) {
	r.tracer.EndSpan(span, err)
}

// Record persists and emits the outcome of a completed call.
func (r *Recorder) Record(ctx context.Context, outcome Outcome) {
	meta := r.meta(outcome.Operation)
	r.metrics.RecordCall(ctx, meta, outcome.Duration, outcome.Err)

	if r.repo != nil {
		if err := r.repo.SaveRequestLog(ctx, outcome.Operation, outcome.Duration, outcome.Err == nil); err != nil {
			r.logger.Warn(ctx, "request log write failed",
				observe.Field{Key: "operation", Value: outcome.Operation},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
		if outcome.Err != nil {
			if err := r.repo.SaveErrorLog(ctx, outcome.Operation, Kind(outcome.Err), outcome.Err.Error()); err != nil {
				r.logger.Warn(ctx, "error log write failed",
					observe.Field{Key: "operation", Value: outcome.Operation},
					observe.Field{Key: "error", Value: err.Error()},
				)
			}
		}
	}

	opLogger := r.logger.WithOp(meta)
	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(outcome.Duration.Microseconds()) / 1000.0},
		{Key: "cache_hit", Value: outcome.CacheHit},
	}
	if outcome.Attempts > 1 {
		fields = append(fields, observe.Field{Key: "attempts", Value: outcome.Attempts})
	}

	if outcome.Err != nil {
		fields = append(fields,
			observe.Field{Key: "error", Value: outcome.Err.Error()},
			observe.Field{Key: "error_kind", Value: Kind(outcome.Err)},
		)
		opLogger.Error(ctx, "call failed", fields...)
		return
	}
	opLogger.Info(ctx, "call completed", fields...)
}

// BreakerTransition emits a circuit breaker state change.
func (r *Recorder) BreakerTransition(ctx context.Context, operation, from, to string) {
	r.metrics.RecordBreakerTransition(ctx, operation, from, to)
	r.logger.Warn(ctx, "circuit breaker state change",
		observe.Field{Key: "operation", Value: operation},
		observe.Field{Key: "from", Value: from},
		observe.Field{Key: "to", Value: to},
	)
}

func (r *Recorder) meta(operation string) observe.OpMeta {
	return observe.OpMeta{Method: operation, Service: r.service}
}
