package core

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/package/span"
	"go.scnd.dev/open/lessonpack/package/telemetry"
)

type Instance struct {
	config    *lessonpack.Config
	telemetry *telemetry.Telemetry
}

func New(config *lessonpack.Config) (_ *Instance, err error) {
	i := &Instance{
		config:    config,
		telemetry: nil,
	}

	i.telemetry, err = telemetry.New(config)
	if err != nil {
		return nil, err
	}

	lessonpack.With = span.NewLayer(i, "", "").With

	return i, nil
}

func (r *Instance) Config() *lessonpack.Config {
	return r.config
}

func (r *Instance) Layer(name string, typ string) lessonpack.Layer {
	return span.NewLayer(r, name, typ)
}

func (r *Instance) Tracer() oteltrace.Tracer {
	if r.telemetry == nil {
		return nil
	}
	return r.telemetry.GetTracer()
}

func (r *Instance) Instrument() lessonpack.Instrument {
	if r.telemetry == nil || r.telemetry.Instrument == nil {
		return nil
	}
	return r.telemetry.Instrument
}

func (r *Instance) Shutdown(ctx context.Context) error {
	if r.telemetry == nil {
		return nil
	}
	return r.telemetry.Shutdown(ctx)
}

func init() {
	lessonpack.With = span.NewLayer(nil, "", "").With
}
