package telemetry_test

import (
	"context"
	"fmt"
	"time"

	"github.com/latticelang/lattice/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Example_basicSetup demonstrates basic telemetry setup.
func Example_basicSetup() {
	// Create configuration
	cfg := telemetry.DefaultConfig()
	cfg.ServiceName = "latticec"
	cfg.ServiceVersion = "1.0.0"

	// Initialize telemetry
	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		panic(err)
	}
	defer tel.Shutdown(context.Background())

	// Start metrics server (non-blocking)
	if err := tel.StartMetricsServer(); err != nil {
		panic(err)
	}

	// Add telemetry to context
	ctx := tel.WithContext(context.Background())

	// Use telemetry
	logger := telemetry.FromContext(ctx)
	logger.Info("Compiler started")

	// Output can vary, so we don't specify output for this example
}

// Example_structuredLogging demonstrates structured logging features.
func Example_structuredLogging() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stdout"

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Component-specific logger
	logger := tel.Logger.NewComponentLogger("evaluator")

	// Add context fields
	logger = logger.WithFields(map[string]interface{}{
		"compile_id":  "compile-123",
		"resource_id": "resource-456",
	})

	// Log at different levels
	logger.Debug("Evaluating class declaration")
	logger.Info("Resource realized")
	logger.Warn("Finalization pass did not fully converge")

	// Log with error
	err := fmt.Errorf("undefined variable")
	logger.WithError(err).Error("Failed to evaluate expression")

	// Output varies, no output specified
}

// Example_distributedTracing demonstrates distributed tracing usage.
func Example_distributedTracing() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Tracing.Exporter = "stdout"

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start a span
	ctx, span := tel.Tracer.Start(ctx, "compile_catalog")
	defer span.End()

	// Add attributes
	span.SetAttributes(
		attribute.String("compile.id", "compile-789"),
		attribute.Int("catalog.resources", 5),
	)

	// Add event
	span.AddEvent("parse.complete")

	// Nested span
	ctx, childSpan := tel.Tracer.Start(ctx, "evaluate_class")
	defer childSpan.End()

	childSpan.SetAttributes(
		attribute.String("resource.id", "resource-456"),
		attribute.String("operation", "evaluate"),
	)

	// Simulate work
	time.Sleep(10 * time.Millisecond)

	// Record success
	telemetry.RecordSuccess(childSpan)

	// Output varies, no output specified
}

// Example_metricsCollection demonstrates metrics collection.
func Example_metricsCollection() {
	cfg := telemetry.DefaultConfig()
	cfg.Metrics.Enabled = true

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Record compile metrics
	tel.Metrics.RecordCompileStarted("web01.example.com")

	// Simulate compile execution
	start := time.Now()
	time.Sleep(50 * time.Millisecond)
	duration := time.Since(start)

	tel.Metrics.RecordCompileCompleted("succeeded", duration)

	// Record declaration metrics
	tel.Metrics.RecordDeclarationEvaluation(
		"class",             // kind
		"succeeded",         // status
		25*time.Millisecond, // duration
		"File",              // resource type
	)

	// Record function call metrics
	tel.Metrics.RecordFunctionCall("join", "builtin", 15*time.Millisecond)

	// Record error metrics
	tel.Metrics.RecordError("transient", "TIMEOUT")

	// Set resource counts
	tel.Metrics.SetResourceCount("File", "realized", 10)
	tel.Metrics.SetResourceCount("Service", "realized", 5)

	fmt.Println("Metrics recorded successfully")
	// Output: Metrics recorded successfully
}

// Example_eventPublishing demonstrates event publishing and subscription.
func Example_eventPublishing() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false // Synchronous for example

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe to events
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
	}, nil) // No filter, receive all events

	// Publish events
	tel.Events.PublishCompileStarted("compile-123", "web01.example.com")
	tel.Events.PublishDeclarationStarted("compile-123", "decl-1", "resource-456", "class")
	tel.Events.PublishDeclarationCompleted("compile-123", "decl-1", "resource-456", 25*time.Millisecond)

	// Output varies due to async nature, no output specified
}

// Example_compileInstrumentation demonstrates instrumenting a complete compile.
func Example_compileInstrumentation() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stderr"
	cfg.Tracing.Exporter = "none"
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start compile context
	compileID := "compile-123"
	node := "web01.example.com"
	ctx = telemetry.WithCompileContext(ctx, compileID, node)

	// Execute compile (simulated)
	executeCompile(ctx, compileID)

	// End compile context
	telemetry.EndCompileContext(ctx, compileID, "succeeded", 3, nil)

	fmt.Println("Compile instrumentation complete")
	// Output: Compile instrumentation complete
}

func executeCompile(ctx context.Context, compileID string) {
	// Simulate declaration evaluation
	declarationID := "decl-1"
	resourceID := "resource-456"
	kind := "class"

	ctx = telemetry.WithDeclarationContext(ctx, compileID, declarationID, resourceID, kind)

	// Get logger from context
	logger := telemetry.FromContext(ctx)
	logger.Info("Evaluating declaration")

	// Simulate work
	time.Sleep(10 * time.Millisecond)

	// End declaration context
	telemetry.EndDeclarationContext(ctx, compileID, declarationID, resourceID, kind, "File", nil)
}

// Example_functionInstrumentation demonstrates instrumenting autoloaded function calls.
func Example_functionInstrumentation() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Tracing.Exporter = "none"
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Add function context
	ctx = telemetry.WithFunctionContext(ctx, "my_plugin_fn", "wasm")

	// Record function operation
	err := telemetry.RecordFunctionOperation(ctx, "my_plugin_fn", "wasm", func() error {
		// Simulate resolver work
		time.Sleep(15 * time.Millisecond)
		return nil
	})

	if err == nil {
		fmt.Println("Function call completed successfully")
	}

	// Output: Function call completed successfully
}

// Example_instrumentedOperation demonstrates using the InstrumentedContext helper.
func Example_instrumentedOperation() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stderr"
	cfg.Tracing.Exporter = "none"
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start instrumented operation
	ic := telemetry.StartOperation(ctx, "validate_catalog",
		attribute.String("compile.id", "compile-123"),
	)
	defer ic.End(nil)

	// Use the instrumented context
	ic.Logger.Info("Validating catalog")

	// Simulate validation
	time.Sleep(5 * time.Millisecond)

	ic.Logger.Debug("Catalog validation complete")

	fmt.Println("Operation instrumentation complete")
	// Output: Operation instrumentation complete
}

// Example_eventFiltering demonstrates event filtering.
func Example_eventFiltering() {
	cfg := telemetry.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.EnableAsync = false

	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Subscribe with level filter (only warnings and errors)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Important event: %s\n", event.Type)
	}, telemetry.FilterByLevel(telemetry.EventLevelWarning))

	// Subscribe with type filter (only non-convergence events)
	tel.Events.Subscribe(func(event telemetry.Event) {
		fmt.Printf("Non-convergent event: %s\n", event.Message)
	}, telemetry.FilterByType(telemetry.EventTypeNonConvergent))

	// Publish various events
	tel.Events.PublishCompileStarted("compile-123", "web01.example.com") // Info - filtered by level filter
	tel.Events.PublishNonConvergent("compile-123", 1000)                 // Error - passes level filter
	tel.Events.PublishCompileFailed("compile-123", "parse error")        // Error - passes level filter

	// Output varies, no output specified
}

// Example_productionConfiguration demonstrates production-ready configuration.
func Example_productionConfiguration() {
	cfg := telemetry.ProductionConfig()

	// Customize for your environment
	cfg.ServiceName = "latticec"
	cfg.ServiceVersion = "1.2.3"
	cfg.Environment = "production"

	// Configure OTLP exporter
	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.Endpoint = "otel-collector.monitoring.svc.cluster.local:4317"
	cfg.Tracing.SamplingRate = 0.1 // 10% sampling
	cfg.Tracing.Insecure = false   // Use TLS in production

	// Configure metrics
	cfg.Metrics.ListenAddress = ":9090"
	cfg.Metrics.Namespace = "lattice"

	// Configure events
	cfg.Events.BufferSize = 10000
	cfg.Events.FlushInterval = 5 * time.Second

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	fmt.Println("Production configuration validated")
	// Output: Production configuration validated
}

// Example_errorRecording demonstrates error recording with proper classification.
func Example_errorRecording() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stderr"
	cfg.Tracing.Exporter = "none"
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())

	// Start a span
	ctx, span := tel.Tracer.Start(ctx, "risky_evaluation")
	defer span.End()

	// Simulate an error
	err := fmt.Errorf("type mismatch")

	if err != nil {
		// Record error on span
		telemetry.RecordError(span, err)

		// Record error metric with classification
		tel.Metrics.RecordError("type", "TYPE_MISMATCH")

		// Log error
		logger := telemetry.FromContext(ctx)
		logger.WithError(err).Error("Evaluation failed")
	}

	fmt.Println("Error recording complete")
	// Output: Error recording complete
}

// Example_multipleComponents demonstrates telemetry in a multi-component system.
func Example_multipleComponents() {
	cfg := telemetry.DevelopmentConfig()
	cfg.Logging.Output = "stderr"
	tel, _ := telemetry.NewTelemetry(cfg)
	defer tel.Shutdown(context.Background())

	// Component-specific loggers
	evaluatorLogger := tel.Logger.NewComponentLogger("evaluator")
	catalogLogger := tel.Logger.NewComponentLogger("catalog")
	functionsLogger := tel.Logger.NewComponentLogger("functions")

	evaluatorLogger.Info("Evaluator initialized")
	catalogLogger.Info("Building catalog")
	functionsLogger.Info("Loading function plugins")

	fmt.Println("Multi-component logging complete")
	// Output: Multi-component logging complete
}
