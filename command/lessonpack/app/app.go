package app

import (
	"fmt"
	"path/filepath"

	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/command/lessonpack/index"
	"go.scnd.dev/open/lessonpack/utility/resource"
	"go.scnd.dev/open/lessonpack/utility/table"
)

type App struct {
	verbose    *bool
	directory  *string
	config     *index.Config
	lessonpack lessonpack.Lessonpack
	resolver   resource.Resolver
}

func New(verbose bool, directory string, config *index.Config, lp lessonpack.Lessonpack) *App {
	return &App{
		verbose:    &verbose,
		directory:  &directory,
		config:     config,
		lessonpack: lp,
		resolver:   nil,
	}
}

func (r *App) Verbose() *bool {
	return r.verbose
}

func (r *App) Directory() *string {
	return r.directory
}

func (r *App) Config() *index.Config {
	return r.config
}

func (r *App) Lessonpack() lessonpack.Lessonpack {
	return r.lessonpack
}

// Path resolves a local path against the working directory.
func (r *App) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(*r.directory, filepath.FromSlash(name))
}

func (r *App) Resolver() (resource.Resolver, error) {
	if r.resolver != nil {
		return r.resolver, nil
	}

	switch *r.config.Source.Type {
	case index.SourceFilesystem:
		r.resolver = resource.NewFilesystem(*r.directory)
	case index.SourceMinio:
		if r.config.Source.Minio == nil {
			return nil, fmt.Errorf("source type %s requires a minio section", index.SourceMinio)
		}
		minio, err := resource.NewMinio(r.config.Source.Minio)
		if err != nil {
			return nil, err
		}
		r.resolver = minio
	default:
		return nil, fmt.Errorf("unknown source type %q", *r.config.Source.Type)
	}

	return r.resolver, nil
}

func (r *App) Builder() (*table.Builder, error) {
	resolver, err := r.Resolver()
	if err != nil {
		return nil, err
	}

	builder := table.NewBuilder(resolver, r.config.Layout)
	if r.lessonpack != nil {
		builder.Instrument = r.lessonpack.Instrument()
	}
	return builder, nil
}
