package table

import (
	"context"
	"time"

	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/package/erroring"
	"go.scnd.dev/open/lessonpack/utility/directory"
	"go.scnd.dev/open/lessonpack/utility/manifest"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

// Compile runs parse, index and build on manifest text.
func Compile(ctx context.Context, text []byte, resolver resource.Resolver, layout *resource.Layout) (*Table, error) {
	return NewBuilder(resolver, layout).Compile(ctx, text)
}

func (r *Builder) Compile(ctx context.Context, text []byte) (_ *Table, err error) {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	started := time.Now()
	defer func() {
		if r.Instrument != nil {
			r.Instrument.CompileDuration(ctx, time.Since(started), err == nil)
		}
	}()

	// * validate layout
	if err := r.Layout.Validate(); err != nil {
		return nil, s.Error("invalid layout", err)
	}

	// * parse manifest
	m, err := manifest.Parse(ctx, text)
	if err != nil {
		return nil, s.Error("unable to parse manifest", err)
	}

	// * index directories
	index := directory.New(ctx, m.Exercises)

	// * build table
	table, err := r.Build(ctx, m, index)
	if err != nil {
		return nil, s.Error("unable to build table", err)
	}

	return table, nil
}

// CompileFrom reads the manifest itself through the resolver.
func (r *Builder) CompileFrom(ctx context.Context, manifestPath string) (*Table, error) {
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	text, err := r.ReadManifest(ctx, manifestPath)
	if err != nil {
		return nil, s.Error("unable to read manifest", err)
	}

	return r.Compile(ctx, text)
}

func (r *Builder) ReadManifest(ctx context.Context, manifestPath string) ([]byte, error) {
	return r.read(ctx, erroring.ResourceKindManifest, manifestPath, "")
}
