package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/command/lessonpack/index"
	"go.scnd.dev/open/lessonpack/utility/canvas"
)

type Command struct {
	Output   string `help:"Generated file, relative to the working directory." short:"o"`
	Package  string `help:"Package clause of the generated file."`
	Variable string `help:"Name of the generated table variable."`
}

func (r *Command) Run(app index.App) error {
	return Run(context.Background(), app, r, os.Stdout)
}

func Run(ctx context.Context, app index.App, command *Command, w io.Writer) error {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	// * resolve output
	config := app.Config()
	output := *config.Output.File
	if command.Output != "" {
		output = command.Output
	}
	outputPath := app.Path(output)
	option := &canvas.Option{
		Package:  config.Output.Package,
		Variable: config.Output.Variable,
		Source:   config.Manifest,
	}
	if command.Package != "" {
		option.Package = &command.Package
	}
	if command.Variable != "" {
		option.Variable = &command.Variable
	}
	if *config.Source.Type == index.SourceFilesystem {
		if source, err := filepath.Rel(filepath.Dir(outputPath), app.Path(*config.Manifest)); err == nil {
			source = filepath.ToSlash(source)
			option.Source = &source
		}
	}
	s.Variable("output", outputPath)

	// * check existing output
	existing, err := os.ReadFile(outputPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.Error("unable to read existing output", err)
	}
	if err == nil && !canvas.IsGenerated(existing) {
		return s.Error(fmt.Sprintf("refusing to overwrite %s, it was not generated by lessonpack", outputPath), nil)
	}

	// * compile table
	builder, err := app.Builder()
	if err != nil {
		return s.Error("unable to construct builder", err)
	}
	table, err := builder.CompileFrom(ctx, *config.Manifest)
	if err != nil {
		return removeStale(ctx, outputPath, existing, s.Error("unable to compile manifest", err))
	}

	// * render source
	source, err := canvas.Render(ctx, table, option)
	if err != nil {
		return removeStale(ctx, outputPath, existing, s.Error("unable to render table", err))
	}

	if err := ctx.Err(); err != nil {
		return s.Error("generation cancelled", err)
	}

	// * skip unchanged output
	if existing != nil && xxh3.Hash(existing) == xxh3.Hash(source) && len(existing) == len(source) {
		slog.Debug("generate.unchanged", "output", outputPath, "fingerprint", table.Fingerprint())
		_, _ = fmt.Fprintf(w, "%s is up to date (%d exercises in %d groups)\n", output, len(table.Exercises), len(table.Groups))
		return nil
	}

	// * write output
	if err := Write(outputPath, source); err != nil {
		return s.Error("unable to write output", err)
	}

	slog.Debug("generate.write", "output", outputPath, "bytes", len(source), "fingerprint", table.Fingerprint())
	_, _ = fmt.Fprintf(w, "%s written (%d exercises in %d groups)\n", output, len(table.Exercises), len(table.Groups))

	return nil
}

// Write replaces path atomically through a sibling temporary file.
func Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	temp, err := os.CreateTemp(filepath.Dir(path), ".lessonpack-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(temp.Name())
	}()

	if _, err := temp.Write(content); err != nil {
		_ = temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(temp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}

// removeStale deletes a previously generated output so a failed build cannot
// leave an outdated table behind.
func removeStale(ctx context.Context, path string, existing []byte, cause error) error {
	if existing == nil {
		return cause
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(cause, fmt.Errorf("unable to remove stale output: %w", err))
	}
	slog.DebugContext(ctx, "generate.remove", "output", path)
	return cause
}
