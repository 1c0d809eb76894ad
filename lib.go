package lessonpack

import (
	"go.opentelemetry.io/otel/trace"
)

type Lessonpack interface {
	Config() *Config
	Layer(name string, typ string) Layer
	Tracer() trace.Tracer
	Instrument() Instrument
}
