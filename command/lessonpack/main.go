package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/bsthun/gut"
	"go.scnd.dev/open/lessonpack"
	"go.scnd.dev/open/lessonpack/command/lessonpack/app"
	"go.scnd.dev/open/lessonpack/command/lessonpack/common/config"
	"go.scnd.dev/open/lessonpack/command/lessonpack/index"
	"go.scnd.dev/open/lessonpack/command/lessonpack/subcommand/check"
	"go.scnd.dev/open/lessonpack/command/lessonpack/subcommand/generate"
	"go.scnd.dev/open/lessonpack/command/lessonpack/subcommand/tree"
	"go.scnd.dev/open/lessonpack/core"
)

var version = "dev"

type Command struct {
	Verbose   bool             `help:"Enable verbose output." short:"v"`
	Directory string           `help:"Run as if started in this directory." short:"C" default:"." type:"existingdir"`
	Config    string           `help:"Configuration file, relative to the working directory." default:"lessonpack.yml"`
	Generate  generate.Command `cmd:"" help:"Compile the manifest into a Go source file."`
	Check     check.Command    `cmd:"" help:"Compile the manifest and report without writing."`
	Tree      tree.Command     `cmd:"" help:"Print directories and their exercises."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("lessonpack"),
		kong.Description("Lessonpack manifest compiler"),
		kong.UsageOnError(),
	)

	// * construct logger
	level := slog.LevelWarn
	if command.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// * load config
	cfg, err := config.New[index.Config](command.Directory, command.Config)
	ctx.FatalIfErrorf(err)

	// * construct instance
	instance, err := core.New(&lessonpack.Config{
		AppName:               gut.Ptr("lessonpack"),
		AppVersion:            gut.Ptr(version),
		TelemetryUrl:          cfg.Telemetry.Url,
		TelemetryOrganization: cfg.Telemetry.Organization,
	})
	ctx.FatalIfErrorf(err)

	// * run subcommand
	ctx.BindTo(app.New(command.Verbose, command.Directory, cfg, instance), (*index.App)(nil))
	err = ctx.Run()

	// * flush telemetry
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := instance.Shutdown(shutdown); err != nil {
		slog.Warn("telemetry.shutdown", "error", err)
	}
	cancel()

	ctx.FatalIfErrorf(err)
}
