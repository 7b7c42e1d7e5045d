package telemetry

import (
	"context"
	"time"

	"todoapp/internal/core/port"
)

// NoOpTelemetry discards everything. Services fall back to it when nothing
// else is wired.
type NoOpTelemetry struct{}

func NewNoOpTelemetry() port.Telemetry {
	return NoOpTelemetry{}
}

type noopSpan struct{}

func (noopSpan) End()                                 {}
func (noopSpan) SetAttributes(map[string]interface{}) {}
func (noopSpan) SetStatus(string, string)             {}
func (noopSpan) RecordError(error)                    {}

func (NoOpTelemetry) StartRepositorySpan(ctx context.Context, _, _ string, _ map[string]interface{}) (context.Context, port.Span) {
	return ctx, noopSpan{}
}

func (NoOpTelemetry) StartServiceSpan(ctx context.Context, _, _ string, _ map[string]interface{}) (context.Context, port.Span) {
	return ctx, noopSpan{}
}

func (NoOpTelemetry) RecordRepositoryOperation(context.Context, string, string, time.Duration, error) {
}

func (NoOpTelemetry) RecordServiceOperation(context.Context, string, string, time.Duration, error) {}

func (NoOpTelemetry) RecordBusinessEvent(context.Context, string, string, string, map[string]interface{}) {
}

func (NoOpTelemetry) RecordError(context.Context, string, error, map[string]interface{}) {}
