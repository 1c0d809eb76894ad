package tree

import (
	"context"
	"io"
	"os"

	"github.com/ddddddO/gtree"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/command/lessonpack/index"
	"go.scnd.dev/open/lessonpack/utility/directory"
	"go.scnd.dev/open/lessonpack/utility/manifest"
)

type Command struct{}

func (r *Command) Run(app index.App) error {
	return Run(context.Background(), app, r, os.Stdout)
}

// Run prints directories and their exercises in manifest order. Payloads are
// not resolved.
func Run(ctx context.Context, app index.App, command *Command, w io.Writer) error {
	// * start span
	s, ctx := lessonpack.With(ctx)
	defer s.End()

	// * read manifest
	config := app.Config()
	builder, err := app.Builder()
	if err != nil {
		return s.Error("unable to construct builder", err)
	}
	text, err := builder.ReadManifest(ctx, *config.Manifest)
	if err != nil {
		return s.Error("unable to read manifest", err)
	}
	m, err := manifest.Parse(ctx, text)
	if err != nil {
		return s.Error("unable to parse manifest", err)
	}

	// * construct tree
	groups := directory.New(ctx, m.Exercises)
	root := gtree.NewRoot(*config.Manifest)
	for g, group := range groups.Groups {
		node := root.Add(group)
		for _, i := range groups.Members(g) {
			node.Add(m.Exercises[i].Name)
		}
	}

	// * print tree
	if err := gtree.OutputFromRoot(w, root); err != nil {
		return s.Error("unable to print tree", err)
	}

	return nil
}
