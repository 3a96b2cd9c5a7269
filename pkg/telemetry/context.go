package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry provides a unified telemetry interface combining logging, tracing, metrics, and events.
type Telemetry struct {
	Logger    *Logger
	Tracer    *Tracer
	Metrics   *Metrics
	Events    *EventPublisher
	Config    *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Initialize logger
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	// Initialize tracer
	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, err
	}

	// Initialize metrics
	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	// Initialize event publisher
	events, err := NewEventPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  logger,
		Tracer:  tracer,
		Metrics: metrics,
		Events:  events,
		Config:  cfg,
	}, nil
}

// WithContext adds the telemetry instance to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	ctx = t.Logger.WithContext(ctx)
	return ctx
}

// FromTelemetryContext retrieves the telemetry instance from the context.
// If no telemetry is found, it returns nil.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown gracefully shuts down all telemetry components.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	// Shutdown in reverse order of initialization
	if err := t.Events.Shutdown(ctx); err != nil {
		return err
	}

	if err := t.Tracer.Shutdown(ctx); err != nil {
		return err
	}

	// Metrics server is not explicitly shut down here as it may need to continue
	// serving metrics until the very end of the application lifecycle

	return nil
}

// Flush forces all pending telemetry data to be exported.
func (t *Telemetry) Flush(ctx context.Context) error {
	return t.Tracer.ForceFlush(ctx)
}

// StartMetricsServer starts the metrics HTTP server if metrics are enabled.
func (t *Telemetry) StartMetricsServer() error {
	return t.Metrics.StartMetricsServer()
}

// Context Helpers for common instrumentation patterns

// InstrumentedContext creates a context with telemetry, logger fields, and a trace span.
type InstrumentedContext struct {
	Ctx    context.Context
	Span   trace.Span
	Logger *Logger
	Timer  *Timer
}

// StartOperation begins an instrumented operation with logging, tracing, and timing.
func StartOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) *InstrumentedContext {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return &InstrumentedContext{
			Ctx:    ctx,
			Logger: FromContext(ctx),
			Timer:  NewTimer(),
		}
	}

	// Start trace span
	spanCtx, span := tel.Tracer.StartSpan(ctx, operation, attrs...)

	// Create logger with operation field
	logger := tel.Logger.WithField("operation", operation)

	// Add trace context to logger if available
	if span.SpanContext().IsValid() {
		logger = logger.WithFields(map[string]interface{}{
			"trace_id": span.SpanContext().TraceID().String(),
			"span_id":  span.SpanContext().SpanID().String(),
		})
	}

	return &InstrumentedContext{
		Ctx:    spanCtx,
		Span:   span,
		Logger: logger,
		Timer:  NewTimer(),
	}
}

// End finishes the instrumented operation, recording success or failure.
func (ic *InstrumentedContext) End(err error) {
	if ic.Span != nil {
		if err != nil {
			RecordError(ic.Span, err)
		} else {
			RecordSuccess(ic.Span)
		}
		ic.Span.End()
	}
}

// WithCompileContext creates a context enriched with compile-specific telemetry.
func WithCompileContext(ctx context.Context, compileID, node string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	// Start compile span
	spanCtx, span := tel.Tracer.StartCompileSpan(ctx, compileID)

	// Create compile-specific logger
	logger := tel.Logger.WithCompileID(compileID).WithField("node", node)
	spanCtx = logger.WithContext(spanCtx)

	// Record compile started metric
	tel.Metrics.RecordCompileStarted(node)

	// Publish compile started event
	_ = tel.Events.PublishCompileStarted(compileID, node)

	// Store the span in context for later retrieval
	spanCtx = context.WithValue(spanCtx, compileSpanKey{}, span)

	return spanCtx
}

// compileSpanKey is the context key for compile spans.
type compileSpanKey struct{}

// EndCompileContext completes the compile context, recording metrics and events.
func EndCompileContext(ctx context.Context, compileID, status string, resourceCount int, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}

	// Get the compile span from context
	if span, ok := ctx.Value(compileSpanKey{}).(trace.Span); ok {
		if err != nil {
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
		span.End()
	}

	// Calculate duration (this is approximate, real duration should come from compile metadata)
	timer := NewTimer()
	duration := timer.Duration()

	// Record metrics
	tel.Metrics.RecordCompileCompleted(status, duration)

	// Publish events
	if err != nil {
		_ = tel.Events.PublishCompileFailed(compileID, err.Error())
	} else {
		_ = tel.Events.PublishCompileCompleted(compileID, resourceCount, duration)
	}
}

// WithDeclarationContext creates a context enriched with declaration-specific telemetry.
func WithDeclarationContext(ctx context.Context, compileID, declarationID, resourceID, kind string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	// Start declaration span
	spanCtx, span := tel.Tracer.StartDeclarationSpan(ctx, declarationID, resourceID, kind)

	// Create declaration-specific logger
	logger := tel.Logger.
		WithCompileID(compileID).
		WithDeclarationID(declarationID).
		WithResourceID(resourceID).
		WithField("kind", kind)
	spanCtx = logger.WithContext(spanCtx)

	// Publish declaration started event
	_ = tel.Events.PublishDeclarationStarted(compileID, declarationID, resourceID, kind)

	// Store the span and timer in context
	spanCtx = context.WithValue(spanCtx, declarationSpanKey{}, span)
	spanCtx = context.WithValue(spanCtx, declarationTimerKey{}, NewTimer())

	return spanCtx
}

// declarationSpanKey is the context key for declaration spans.
type declarationSpanKey struct{}

// declarationTimerKey is the context key for declaration timers.
type declarationTimerKey struct{}

// EndDeclarationContext completes the declaration context, recording metrics and events.
func EndDeclarationContext(ctx context.Context, compileID, declarationID, resourceID, kind, resourceType string, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}

	// Get the span from context
	if span, ok := ctx.Value(declarationSpanKey{}).(trace.Span); ok {
		if err != nil {
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
		span.End()
	}

	// Get the timer from context
	var duration time.Duration
	if timer, ok := ctx.Value(declarationTimerKey{}).(*Timer); ok {
		duration = timer.Duration()
	}

	status := "ok"
	if err != nil {
		status = "failed"
	}
	tel.Metrics.RecordDeclarationEvaluation(kind, status, duration, resourceType)

	// Publish events
	if err != nil {
		_ = tel.Events.PublishDeclarationFailed(compileID, declarationID, resourceID, err.Error())
	} else {
		_ = tel.Events.PublishDeclarationCompleted(compileID, declarationID, resourceID, duration)
	}
}

// WithFunctionContext creates a context enriched with function-specific telemetry.
func WithFunctionContext(ctx context.Context, functionName, resolver string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	// Create function-specific logger
	logger := tel.Logger.WithFunction(functionName, resolver)
	return logger.WithContext(ctx)
}

// RecordFunctionOperation records an autoloaded function call with metrics and tracing.
func RecordFunctionOperation(ctx context.Context, functionName, resolver string, fn func() error) error {
	tel := FromTelemetryContext(ctx)

	// Start span
	var span trace.Span
	if tel != nil {
		ctx, span = tel.Tracer.StartFunctionSpan(ctx, functionName, resolver)
		defer span.End()
	}

	// Start timer
	timer := NewTimer()

	// Execute operation
	err := fn()

	// Record metrics
	if tel != nil {
		duration := timer.Duration()
		tel.Metrics.RecordFunctionCall(functionName, resolver, duration)
		if err != nil {
			tel.Metrics.RecordFunctionError(functionName, resolver)
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
	}

	return err
}
