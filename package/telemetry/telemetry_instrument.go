package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Instrument struct {
	ExerciseCounter  metric.Int64Counter
	GroupCounter     metric.Int64Counter
	ByteCounter      metric.Int64Counter
	MissingCounter   metric.Int64Counter
	CompileHistogram metric.Int64Histogram
}

func NewInstrument(meter metric.Meter) (*Instrument, error) {
	exerciseCounter, err := meter.Int64Counter(
		"lessonpack.exercise.embedded",
		metric.WithDescription("Number of exercises packaged into a table"),
	)
	if err != nil {
		return nil, err
	}

	groupCounter, err := meter.Int64Counter(
		"lessonpack.group.embedded",
		metric.WithDescription("Number of exercise directories packaged into a table"),
	)
	if err != nil {
		return nil, err
	}

	byteCounter, err := meter.Int64Counter(
		"lessonpack.bytes.embedded",
		metric.WithDescription("Payload bytes packaged into a table"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	missingCounter, err := meter.Int64Counter(
		"lessonpack.resource.missing",
		metric.WithDescription("Resources that could not be resolved"),
	)
	if err != nil {
		return nil, err
	}

	compileHistogram, err := meter.Int64Histogram(
		"lessonpack.compile.duration",
		metric.WithDescription("Duration of a manifest compilation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Instrument{
		ExerciseCounter:  exerciseCounter,
		GroupCounter:     groupCounter,
		ByteCounter:      byteCounter,
		MissingCounter:   missingCounter,
		CompileHistogram: compileHistogram,
	}, nil
}

func (r *Instrument) ExerciseEmbedded(ctx context.Context, group string, size int64) {
	attributes := metric.WithAttributes(attribute.String("lessonpack.group", group))
	r.ExerciseCounter.Add(ctx, 1, attributes)
	r.ByteCounter.Add(ctx, size, attributes)
}

func (r *Instrument) GroupEmbedded(ctx context.Context, group string, size int64) {
	attributes := metric.WithAttributes(attribute.String("lessonpack.group", group))
	r.GroupCounter.Add(ctx, 1, attributes)
	r.ByteCounter.Add(ctx, size, attributes)
}

func (r *Instrument) ResourceMissing(ctx context.Context, kind string) {
	r.MissingCounter.Add(
		ctx,
		1,
		metric.WithAttributes(
			attribute.String("lessonpack.resource.kind", kind),
		),
	)
}

func (r *Instrument) CompileDuration(ctx context.Context, duration time.Duration, success bool) {
	r.CompileHistogram.Record(
		ctx,
		duration.Milliseconds(),
		metric.WithAttributes(
			attribute.Bool("lessonpack.compile.success", success),
		),
	)
}
