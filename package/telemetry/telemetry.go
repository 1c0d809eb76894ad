package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/package/span"
)

const (
	MeterName  = "lessonpack-meter"
	TracerName = "lessonpack-tracer"
)

type Telemetry struct {
	Config     *lessonpack.Config
	Meter      metric.Meter
	Tracer     trace.Tracer
	Instrument *Instrument
	shutdowns  []func(context.Context) error
}

func New(config *lessonpack.Config) (_ *Telemetry, err error) {
	// * construct telemetry
	telemetry := &Telemetry{
		Config:     config,
		Meter:      nil,
		Tracer:     nil,
		Instrument: nil,
		shutdowns:  nil,
	}

	// * fall back to global providers without an exporter endpoint
	if config.TelemetryUrl == nil || *config.TelemetryUrl == "" {
		telemetry.Meter = otel.Meter(MeterName)
		telemetry.Tracer = otel.Tracer(TracerName)
		telemetry.Instrument, err = NewInstrument(telemetry.Meter)
		if err != nil {
			return nil, span.NewError(nil, "unable to initialize instrument", err)
		}
		return telemetry, nil
	}

	// * construct resource
	attributes := make([]attribute.KeyValue, 0)
	if config.AppName != nil {
		attributes = append(attributes, semconv.ServiceName(*config.AppName))
	}
	if config.AppVersion != nil {
		attributes = append(attributes, semconv.ServiceVersion(*config.AppVersion))
	}
	res, err := resource.New(context.Background(), resource.WithAttributes(attributes...))
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize resource", err)
	}

	// * construct meter
	telemetry.Meter, err = NewMeter(telemetry, res)
	if err != nil {
		return nil, err
	}

	// * construct tracer
	telemetry.Tracer, err = NewTracer(telemetry, res)
	if err != nil {
		return nil, err
	}

	// * construct instrument
	telemetry.Instrument, err = NewInstrument(telemetry.Meter)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize instrument", err)
	}

	return telemetry, nil
}

func (r *Telemetry) headers() map[string]string {
	headers := make(map[string]string)
	if r.Config.TelemetryOrganization != nil {
		headers["X-Scope-OrgID"] = *r.Config.TelemetryOrganization
	}
	return headers
}

func NewMeter(telemetry *Telemetry, res *resource.Resource) (metric.Meter, error) {
	// * construct exporter
	exporter, err := otlpmetricgrpc.New(
		context.Background(),
		otlpmetricgrpc.WithEndpoint(*telemetry.Config.TelemetryUrl),
		otlpmetricgrpc.WithHeaders(telemetry.headers()),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize metric exporter", err)
	}

	// * construct provider
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Minute),
		)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(provider)
	telemetry.shutdowns = append(telemetry.shutdowns, provider.Shutdown)

	return otel.Meter(MeterName), nil
}

func NewTracer(telemetry *Telemetry, res *resource.Resource) (trace.Tracer, error) {
	// * construct exporter
	exporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(*telemetry.Config.TelemetryUrl),
		otlptracegrpc.WithHeaders(telemetry.headers()),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, span.NewError(nil, "unable to initialize trace exporter", err)
	}

	// * construct provider
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	telemetry.shutdowns = append(telemetry.shutdowns, provider.Shutdown)

	return otel.Tracer(TracerName), nil
}

// Shutdown flushes pending spans and metrics. The process is short lived, so
// this has to run before exit for anything to reach the collector.
func (r *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.shutdowns) - 1; i >= 0; i-- {
		if err := r.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.shutdowns = nil
	return errors.Join(errs...)
}
