package table

import (
	"context"
	"fmt"
	"log/slog"

	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/package/erroring"
	"go.scnd.dev/open/lessonpack/utility/directory"
	"go.scnd.dev/open/lessonpack/utility/manifest"
	"go.scnd.dev/open/lessonpack/utility/resource"
)

type Builder struct {
	Resolver   resource.Resolver
	Layout     *resource.Layout
	Instrument lessonpack.Instrument
}

func NewBuilder(resolver resource.Resolver, layout *resource.Layout) *Builder {
	if layout == nil {
		layout = resource.DefaultLayout()
	}

	return &Builder{
		Resolver:   resolver,
		Layout:     layout,
		Instrument: nil,
	}
}

// Build reads every payload the manifest refers to. Readmes are read when
// their group first occurs, so a missing resource is reported in manifest
// order. Any failure returns no table.
func (r *Builder) Build(ctx context.Context, m *manifest.Manifest, index *directory.Index) (*Table, error) {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	if len(index.Indices) != len(m.Exercises) {
		return nil, s.Error(fmt.Sprintf("index covers %d exercises, manifest declares %d", len(index.Indices), len(m.Exercises)), nil)
	}

	table := &Table{
		Manifest:  m.Raw,
		Layout:    r.Layout,
		Exercises: make([]*Exercise, 0, len(m.Exercises)),
		Groups:    make([]*Group, 0, len(index.Groups)),
	}

	for i, exercise := range m.Exercises {
		groupIndex := index.Indices[i]
		group := index.Groups[groupIndex]

		// * resolve readme on first occurrence of the group
		if groupIndex == len(table.Groups) {
			readmePath := r.Layout.ReadmePath(group)
			readme, err := r.read(ctx, erroring.ResourceKindReadme, readmePath, fmt.Sprintf("directory %q", group))
			if err != nil {
				return nil, s.Error("unable to resolve directory readme", err)
			}

			table.Groups = append(table.Groups, &Group{
				Name:       group,
				ReadmePath: readmePath,
				Readme:     readme,
			})
			if r.Instrument != nil {
				r.Instrument.GroupEmbedded(ctx, group, int64(len(readme)))
			}
		} else if groupIndex > len(table.Groups) {
			return nil, s.Error(fmt.Sprintf("directory %q is indexed out of first-occurrence order", group), nil)
		}

		// * resolve stub and solution
		owner := fmt.Sprintf("exercise %q", exercise.Name)
		exercisePath := r.Layout.ExercisePath(group, exercise.Name)
		stub, err := r.read(ctx, erroring.ResourceKindExercise, exercisePath, owner)
		if err != nil {
			return nil, s.Error("unable to resolve exercise", err)
		}

		solutionPath := r.Layout.SolutionPath(group, exercise.Name)
		solution, err := r.read(ctx, erroring.ResourceKindSolution, solutionPath, owner)
		if err != nil {
			return nil, s.Error("unable to resolve solution", err)
		}

		table.Exercises = append(table.Exercises, &Exercise{
			Name:         exercise.Name,
			ExercisePath: exercisePath,
			SolutionPath: solutionPath,
			Exercise:     stub,
			Solution:     solution,
			GroupIndex:   groupIndex,
		})
		if r.Instrument != nil {
			r.Instrument.ExerciseEmbedded(ctx, group, int64(len(stub)+len(solution)))
		}
	}

	s.Variable("exercises", len(table.Exercises))
	s.Variable("groups", len(table.Groups))
	slog.Debug("table.build", "exercises", len(table.Exercises), "groups", len(table.Groups), "bytes", table.Size())

	return table, nil
}

func (r *Builder) read(ctx context.Context, kind erroring.ResourceKind, path string, owner string) ([]byte, error) {
	content, err := r.Resolver.Read(ctx, path)
	if err == nil {
		return content, nil
	}

	// * cancellation is not a missing resource
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if r.Instrument != nil {
		r.Instrument.ResourceMissing(ctx, string(kind))
	}
	return nil, &erroring.MissingResourceError{
		Kind:  kind,
		Path:  path,
		Owner: owner,
		Err:   err,
	}
}
