package span

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Span struct {
	Name      *string        `json:"name,omitempty"`
	Path      []*string      `json:"path,omitempty"`
	Layer     *Layer         `json:"layer,omitempty"`
	Caller    *Caller        `json:"caller,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	Started   *time.Time     `json:"started,omitempty"`
	Ended     *time.Time     `json:"ended,omitempty"`
	Children  []*Span        `json:"children,omitempty"`
	TraceSpan trace.Span     `json:"-"`
}

func (r *Span) Variable(key string, value any) {
	r.Variables[key] = value
	if r.TraceSpan != nil {
		r.TraceSpan.SetAttributes(attribute.String("span."+key, fmt.Sprint(value)))
	}
}

func (r *Span) Error(message string, err error) error {
	e := NewError(r, message, err)
	if r.TraceSpan != nil {
		r.TraceSpan.RecordError(e)
		r.TraceSpan.SetStatus(codes.Error, message)
	}
	return e
}

func (r *Span) End() {
	end := time.Now()
	r.Ended = &end
	if r.TraceSpan != nil {
		r.TraceSpan.End()
	}
}
