package span

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Wrapper struct {
	Span *Span `json:"span"`
}

func (r *Wrapper) Variable(key string, value any) {
	r.Span.Variable(key, value)
}

func (r *Wrapper) Error(message string, err error) error {
	return r.Span.Error(message, err)
}

func (r *Wrapper) Trace() trace.Span {
	if r.Span.TraceSpan == nil {
		return trace.SpanFromContext(context.Background())
	}
	return r.Span.TraceSpan
}

func (r *Wrapper) Started() *time.Time {
	return r.Span.Started
}

func (r *Wrapper) End() {
	r.Span.End()
}
