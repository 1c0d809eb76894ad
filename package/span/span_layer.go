package span

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/lessonpack"
)

type Layer struct {
	Lessonpack lessonpack.Lessonpack `json:"-"`
	Name       string                `json:"name,omitempty"`
	Type       string                `json:"type,omitempty"`
	Caller     *Caller               `json:"caller,omitempty"`
}

func NewLayer(lp lessonpack.Lessonpack, name string, typ string) *Layer {
	caller := NewCaller()

	return &Layer{
		Lessonpack: lp,
		Name:       name,
		Type:       typ,
		Caller:     caller,
	}
}

func (r *Layer) With(ctx context.Context) (lessonpack.Span, context.Context) {
	parent, ok := ctx.Value(ContextKeySpan).(*Span)
	caller := NewCaller()
	name := caller.String()
	now := time.Now()

	var layer *Layer
	if r.Name != "" {
		layer = r
	}

	// * resolve instance for tracing
	lp := r.Lessonpack
	if lp == nil {
		lp = FromContext(ctx)
	}

	var tracingSpan trace.Span
	if lp != nil && lp.Tracer() != nil {
		ctx, tracingSpan = lp.Tracer().Start(ctx, name)
		tracingSpan.SetAttributes(attribute.String("span.layer", fmt.Sprintf("%s/%s", r.Type, r.Name)))
	}

	s := &Span{
		Name:      &name,
		Path:      []*string{},
		Layer:     layer,
		Caller:    caller,
		Variables: make(map[string]any),
		Started:   &now,
		Ended:     nil,
		Children:  []*Span{},
		TraceSpan: tracingSpan,
	}

	// * attach to parent span
	if ok {
		s.Path = append(slices.Clone(parent.Path), parent.Name)
		parent.Children = append(parent.Children, s)
	}

	return &Wrapper{Span: s}, context.WithValue(ctx, ContextKeySpan, s)
}
