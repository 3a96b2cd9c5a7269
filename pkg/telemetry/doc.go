// Package telemetry provides comprehensive observability instrumentation for
// the lattice compiler.
//
// The telemetry package integrates structured logging (zerolog), distributed
// tracing (OpenTelemetry), metrics (Prometheus), and event publishing into a
// unified system for monitoring and debugging catalog compiles.
//
// # Architecture
//
// The telemetry system is built on four pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//  4. Event Publishing - Async event system for audit and notifications
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "latticec"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	// Start metrics server
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific logging with automatic context propagation:
//
//	logger := tel.Logger.NewComponentLogger("evaluator")
//	logger = logger.WithCompileID("compile-123").WithResourceID("resource-456")
//	logger.Info("Evaluating class declaration")
//	logger.WithError(err).Error("Evaluation failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into evaluation flow and performance:
//
//	ctx, span := tel.Tracer.Start(ctx, "operation.name")
//	defer span.End()
//
//	// Add attributes
//	span.SetAttributes(
//	    attribute.String("resource.id", resourceID),
//	    attribute.String("operation", "evaluate"),
//	)
//
//	// Record events
//	span.AddEvent("finalization.complete")
//
//	// Record errors
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: OTLP (production), Stdout (development)
//
// # Metrics
//
// Prometheus metrics track compiler behavior and performance:
//
//	// Record compile execution
//	tel.Metrics.RecordCompileStarted("web01.example.com")
//	tel.Metrics.RecordCompileCompleted("succeeded", duration)
//
//	// Record declaration evaluation
//	tel.Metrics.RecordDeclarationEvaluation("class", "succeeded", duration, "File")
//
//	// Record function calls
//	tel.Metrics.RecordFunctionCall("join", "builtin", duration)
//
//	// Record errors
//	tel.Metrics.RecordError("transient", "TIMEOUT")
//
// Metrics are exposed via HTTP at /metrics (default: :9090/metrics)
//
// # Event Publishing
//
// The event system provides async publishing with buffering and filtering:
//
//	// Publish events
//	tel.Events.PublishCompileStarted(compileID, node)
//	tel.Events.PublishDeclarationCompleted(compileID, declarationID, resourceID, duration)
//	tel.Events.PublishNonConvergent(compileID, iterations)
//
//	// Subscribe to events
//	tel.Events.Subscribe(func(event telemetry.Event) {
//	    fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
//	}, telemetry.FilterByLevel("warning"))
//
// Event filters: FilterByLevel, FilterByType, FilterByCompileID, FilterByResourceID
//
// # Context Helpers
//
// High-level helpers simplify common instrumentation patterns:
//
//	// Instrument an operation
//	ic := telemetry.StartOperation(ctx, "catalog.finalize",
//	    attribute.String("compile.id", compileID))
//	defer ic.End(err)
//
//	ic.Logger.Info("Finalizing catalog")
//
//	// Compile context
//	ctx = telemetry.WithCompileContext(ctx, compileID, node)
//	defer telemetry.EndCompileContext(ctx, compileID, status, resourceCount, err)
//
//	// Declaration context
//	ctx = telemetry.WithDeclarationContext(ctx, compileID, declarationID, resourceID, "class")
//	defer telemetry.EndDeclarationContext(ctx, compileID, declarationID, resourceID, "class", resourceType, err)
//
//	// Function call
//	err := telemetry.RecordFunctionOperation(ctx, "my_plugin_fn", "wasm", func() error {
//	    return resolver.Call(ctx, args)
//	})
//
// # Configuration
//
// The package provides pre-configured setups for different environments:
//
//	// Development (verbose logging, stdout traces, full sampling)
//	cfg := telemetry.DevelopmentConfig()
//
//	// Production (JSON logs, OTLP traces, 10% sampling)
//	cfg := telemetry.ProductionConfig()
//
//	// Custom configuration
//	cfg := &telemetry.Config{
//	    ServiceName: "latticec",
//	    ServiceVersion: "1.0.0",
//	    Environment: "staging",
//	    Logging: telemetry.LoggingConfig{
//	        Level: "info",
//	        Format: "json",
//	    },
//	    Tracing: telemetry.TracingConfig{
//	        Enabled: true,
//	        Exporter: "otlp",
//	        Endpoint: "otel-collector:4317",
//	        SamplingRate: 0.1,
//	    },
//	    Metrics: telemetry.MetricsConfig{
//	        Enabled: true,
//	        ListenAddress: ":9090",
//	    },
//	}
//
// # Performance Considerations
//
// The telemetry system is designed for minimal overhead:
//
//  - Structured logging uses zerolog's zero-allocation approach
//  - Tracing uses sampling to reduce data volume in production
//  - Metrics use Prometheus's efficient storage format
//  - Events are buffered and batched to reduce I/O
//  - All operations are non-blocking when possible
//
// Typical overhead: <1% CPU, <10MB memory for moderate workloads
//
// # Graceful Shutdown
//
// Always shut down telemetry gracefully to flush pending data:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	if err := tel.Shutdown(ctx); err != nil {
//	    log.Printf("Telemetry shutdown error: %v", err)
//	}
//
// This ensures:
//  - All buffered events are published
//  - All pending traces are exported
//  - Metrics are finalized
//
// # Integration with the Evaluation Core
//
// pkg/compiler integrates with telemetry when its Options carry a
// Telemetry instance:
//
//  1. Compiles: compile-level tracing, metrics and events
//     (WithCompileContext / EndCompileContext)
//  2. Finalization: a non-convergence metric and event when
//     finalization returns an error
//
// Declarations and autoloaded function calls are not instrumented by the
// evaluation core; the declaration and function helpers in this package
// are only called by code that uses them directly.
//
// # Exporters
//
// Tracing supports multiple exporters:
//
//  - "stdout": Print traces to stdout (development)
//  - "otlp": Export via OTLP/gRPC (production, works with collectors)
//  - "none": Generate traces but don't export (testing)
//
// Configure via TracingConfig.Exporter and TracingConfig.Endpoint
//
// # Common Metrics
//
// Key metrics exposed:
//
//  - lattice_compiles_started_total{node}
//  - lattice_compiles_completed_total{status}
//  - lattice_compile_duration_seconds{status}
//  - lattice_declarations_evaluated_total{kind,status}
//  - lattice_declaration_duration_seconds{kind,resource_type}
//  - lattice_function_calls_total{function,resolver}
//  - lattice_function_call_duration_seconds{function,resolver}
//  - lattice_errors_by_class_total{class}
//  - lattice_finalize_non_convergent_total{node}
//  - lattice_active_compiles
//
// # Best Practices
//
//  1. Always use context to propagate telemetry
//  2. Use component-specific loggers for clarity
//  3. Add meaningful attributes to spans
//  4. Record both success and failure metrics
//  5. Use appropriate log levels
//  6. Filter events to avoid overwhelming subscribers
//  7. Monitor telemetry overhead in production
//  8. Configure sampling for high-volume systems
//  9. Always call defer span.End() after starting a span
//  10. Shut down gracefully to avoid data loss
//
// # Security Considerations
//
//  - Never log sensitive data (credentials, keys, tokens)
//  - Sanitize resource IDs if they contain PII
//  - Use secure connections (TLS) for trace exporters in production
//  - Limit metrics endpoint access via network policies
//  - Consider event data before adding to audit logs
//
package telemetry
