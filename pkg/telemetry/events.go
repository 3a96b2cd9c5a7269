package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event emitted during compilation.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// CompileID is the associated compile ID, if applicable.
	CompileID string `json:"compile_id,omitempty"`

	// DeclarationID is the associated class/defined-type declaration ID,
	// if applicable.
	DeclarationID string `json:"declaration_id,omitempty"`

	// ResourceID is the associated resource key, if applicable.
	ResourceID string `json:"resource_id,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeCompileStarted      = "compile.started"
	EventTypeCompileCompleted    = "compile.completed"
	EventTypeCompileFailed       = "compile.failed"
	EventTypeDeclarationStarted   = "declaration.started"
	EventTypeDeclarationCompleted = "declaration.completed"
	EventTypeDeclarationFailed    = "declaration.failed"
	EventTypeResourceRealized     = "resource.realized"
	EventTypeNonConvergent        = "finalize.non_convergent"
	EventTypeTypeViolation        = "type.violation"
	EventTypeFunctionInvoked      = "function.invoked"
	EventTypeError                = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	// Start the periodic flush goroutine
	if cfg.FlushInterval > 0 {
		ep.wg.Add(1)
		go ep.periodicFlush()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			// Buffer full, drop event or log warning
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishCompileStarted publishes a compile started event.
func (ep *EventPublisher) PublishCompileStarted(compileID, node string) error {
	return ep.Publish(Event{
		Type:      EventTypeCompileStarted,
		Source:    "compiler",
		CompileID: compileID,
		Message:   fmt.Sprintf("compile %s started for node %s", compileID, node),
		Level:     EventLevelInfo,
		Data: map[string]interface{}{
			"node": node,
		},
	})
}

// PublishCompileCompleted publishes a compile completed event.
func (ep *EventPublisher) PublishCompileCompleted(compileID string, resourceCount int, duration time.Duration) error {
	return ep.Publish(Event{
		Type:      EventTypeCompileCompleted,
		Source:    "compiler",
		CompileID: compileID,
		Message:   fmt.Sprintf("compile %s completed with %d resources", compileID, resourceCount),
		Level:     EventLevelInfo,
		Data: map[string]interface{}{
			"resource_count": resourceCount,
			"duration":       duration.Seconds(),
		},
	})
}

// PublishCompileFailed publishes a compile failed event.
func (ep *EventPublisher) PublishCompileFailed(compileID, reason string) error {
	return ep.Publish(Event{
		Type:      EventTypeCompileFailed,
		Source:    "compiler",
		CompileID: compileID,
		Message:   fmt.Sprintf("compile %s failed: %s", compileID, reason),
		Level:     EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishDeclarationStarted publishes a class/defined-type declaration
// started event.
func (ep *EventPublisher) PublishDeclarationStarted(compileID, declarationID, resourceID, kind string) error {
	return ep.Publish(Event{
		Type:          EventTypeDeclarationStarted,
		Source:        "evaluator",
		CompileID:     compileID,
		DeclarationID: declarationID,
		ResourceID:    resourceID,
		Message:       fmt.Sprintf("declaration %s started: %s on resource %s", declarationID, kind, resourceID),
		Level:         EventLevelInfo,
		Data: map[string]interface{}{
			"kind": kind,
		},
	})
}

// PublishDeclarationCompleted publishes a declaration completed event.
func (ep *EventPublisher) PublishDeclarationCompleted(compileID, declarationID, resourceID string, duration time.Duration) error {
	return ep.Publish(Event{
		Type:          EventTypeDeclarationCompleted,
		Source:        "evaluator",
		CompileID:     compileID,
		DeclarationID: declarationID,
		ResourceID:    resourceID,
		Message:       fmt.Sprintf("declaration %s completed for resource %s", declarationID, resourceID),
		Level:         EventLevelInfo,
		Data: map[string]interface{}{
			"duration": duration.Seconds(),
		},
	})
}

// PublishDeclarationFailed publishes a declaration failed event.
func (ep *EventPublisher) PublishDeclarationFailed(compileID, declarationID, resourceID, reason string) error {
	return ep.Publish(Event{
		Type:          EventTypeDeclarationFailed,
		Source:        "evaluator",
		CompileID:     compileID,
		DeclarationID: declarationID,
		ResourceID:    resourceID,
		Message:       fmt.Sprintf("declaration %s failed for resource %s: %s", declarationID, resourceID, reason),
		Level:         EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishResourceRealized publishes a resource-realization event: a
// virtual or exported resource matched by a collector and brought into
// the catalog during finalization.
func (ep *EventPublisher) PublishResourceRealized(resourceID, collectorType string) error {
	return ep.Publish(Event{
		Type:       EventTypeResourceRealized,
		Source:     "finalizer",
		ResourceID: resourceID,
		Message:    fmt.Sprintf("resource %s realized by a %s collector", resourceID, collectorType),
		Level:      EventLevelInfo,
		Data: map[string]interface{}{
			"collector_type": collectorType,
		},
	})
}

// PublishNonConvergent publishes a finalization-non-convergent event.
func (ep *EventPublisher) PublishNonConvergent(compileID string, iterations int) error {
	return ep.Publish(Event{
		Type:      EventTypeNonConvergent,
		Source:    "finalizer",
		CompileID: compileID,
		Message:   fmt.Sprintf("compile %s did not converge after %d finalization passes", compileID, iterations),
		Level:     EventLevelError,
		Data: map[string]interface{}{
			"iterations": iterations,
		},
	})
}

// PublishTypeViolation publishes a type-constraint violation event.
func (ep *EventPublisher) PublishTypeViolation(resourceID, attribute, expected string) error {
	return ep.Publish(Event{
		Type:       EventTypeTypeViolation,
		Source:     "evaluator",
		ResourceID: resourceID,
		Message:    fmt.Sprintf("attribute %s on resource %s violates type %s", attribute, resourceID, expected),
		Level:      EventLevelError,
		Data: map[string]interface{}{
			"attribute": attribute,
			"expected":  expected,
		},
	})
}

// PublishFunctionInvoked publishes an autoloaded-function invocation
// event (spec §8's resolver backends: Starlark, WASM).
func (ep *EventPublisher) PublishFunctionInvoked(name, resolver string) error {
	return ep.Publish(Event{
		Type:    EventTypeFunctionInvoked,
		Source:  "functions",
		Message: fmt.Sprintf("function %s resolved via %s", name, resolver),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"resolver": resolver,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// periodicFlush flushes events periodically.
func (ep *EventPublisher) periodicFlush() {
	defer ep.wg.Done()

	ticker := time.NewTicker(ep.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Trigger flush by draining buffer
			// This is handled by the processEvents goroutine
		case <-ep.ctx.Done():
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		// Call subscriber in a goroutine to avoid blocking
		go entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByCompileID creates a filter that only allows events for a specific compile.
func FilterByCompileID(compileID string) EventFilter {
	return func(event Event) bool {
		return event.CompileID == compileID
	}
}

// FilterByResourceID creates a filter that only allows events for a specific resource.
func FilterByResourceID(resourceID string) EventFilter {
	return func(event Event) bool {
		return event.ResourceID == resourceID
	}
}
