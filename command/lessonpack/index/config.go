package index

import (
	"github.com/bsthun/gut"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

const (
	SourceFilesystem = "filesystem"
	SourceMinio      = "minio"
)

type Config struct {
	Manifest  *string          `yaml:"manifest" validate:"required"`
	Layout    *resource.Layout `yaml:"layout" validate:"required"`
	Output    *OutputConfig    `yaml:"output" validate:"required"`
	Source    *SourceConfig    `yaml:"source" validate:"required"`
	Telemetry *TelemetryConfig `yaml:"telemetry" validate:"required"`
}

type OutputConfig struct {
	File     *string `yaml:"file" validate:"required"`
	Package  *string `yaml:"package" validate:"required"`
	Variable *string `yaml:"variable" validate:"required"`
}

type SourceConfig struct {
	Type  *string               `yaml:"type" validate:"required,oneof=filesystem minio"`
	Minio *resource.MinioConfig `yaml:"minio"`
}

type TelemetryConfig struct {
	Url          *string `yaml:"url"`
	Organization *string `yaml:"organization"`
}

func (r *Config) Default() {
	if r.Manifest == nil {
		r.Manifest = gut.Ptr("info.toml")
	}

	// * layout, filled per field
	defaults := resource.DefaultLayout()
	if r.Layout == nil {
		r.Layout = defaults
	}
	if r.Layout.ExerciseRoot == "" {
		r.Layout.ExerciseRoot = defaults.ExerciseRoot
	}
	if r.Layout.SolutionRoot == "" {
		r.Layout.SolutionRoot = defaults.SolutionRoot
	}
	if r.Layout.Extension == "" {
		r.Layout.Extension = defaults.Extension
	}
	if r.Layout.Readme == "" {
		r.Layout.Readme = defaults.Readme
	}

	// * output
	if r.Output == nil {
		r.Output = new(OutputConfig)
	}
	if r.Output.File == nil {
		r.Output.File = gut.Ptr("embedded_files.go")
	}
	if r.Output.Package == nil {
		r.Output.Package = gut.Ptr("main")
	}
	if r.Output.Variable == nil {
		r.Output.Variable = gut.Ptr("EmbeddedFiles")
	}

	// * source
	if r.Source == nil {
		r.Source = new(SourceConfig)
	}
	if r.Source.Type == nil {
		r.Source.Type = gut.Ptr(SourceFilesystem)
	}

	if r.Telemetry == nil {
		r.Telemetry = new(TelemetryConfig)
	}
}
