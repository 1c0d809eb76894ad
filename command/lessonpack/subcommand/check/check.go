package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/command/lessonpack/index"
	"go.scnd.dev/open/lessonpack/utility/canvas"
)

type Command struct {
	Strict bool `help:"Fail when the generated file is missing or outdated."`
}

func (r *Command) Run(app index.App) error {
	return Run(context.Background(), app, r, os.Stdout)
}

// Run compiles the manifest without writing anything and reports whether
// the configured output matches.
func Run(ctx context.Context, app index.App, command *Command, w io.Writer) error {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	// * compile table
	config := app.Config()
	builder, err := app.Builder()
	if err != nil {
		return s.Error("unable to construct builder", err)
	}
	table, err := builder.CompileFrom(ctx, *config.Manifest)
	if err != nil {
		return s.Error("unable to compile manifest", err)
	}

	_, _ = fmt.Fprintf(w, "%d exercises in %d groups\n", len(table.Exercises), len(table.Groups))
	_, _ = fmt.Fprintf(w, "fingerprint %s\n", table.Fingerprint())

	// * compare with output
	source, err := canvas.Render(ctx, table, &canvas.Option{
		Package:  config.Output.Package,
		Variable: config.Output.Variable,
		Source:   nil,
	})
	if err != nil {
		return s.Error("unable to render table", err)
	}

	status := "up to date"
	existing, err := os.ReadFile(app.Path(*config.Output.File))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		status = "missing"
	case err != nil:
		return s.Error("unable to read output", err)
	case !sameTable(existing, source):
		status = "outdated"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", *config.Output.File, status)

	if command.Strict && status != "up to date" {
		return s.Error(fmt.Sprintf("%s is %s", *config.Output.File, status), nil)
	}

	return nil
}

// sameTable compares generated files past their header line, which names
// the manifest path relative to the output.
func sameTable(existing []byte, source []byte) bool {
	if !canvas.IsGenerated(existing) {
		return false
	}
	return bytes.Equal(body(existing), body(source))
}

func body(content []byte) []byte {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		return content[i+1:]
	}
	return nil
}
