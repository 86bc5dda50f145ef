package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Exit))
}

// run parses args and executes the selected command, returning the exit code.
func run(args []string, stdout, stderr io.Writer, exit func(int)) int {
	var cli commands.CLI
	g := &commands.Global{RunID: uuid.NewString(), Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(&cli,
		kong.Name("docsite"),
		kong.Description("Site configuration and sidebar provider for the pybulletX documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(g),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 10
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "docsite: %v\n", err)
		return 2
	}

	if err := kctx.Run(g, &cli); err != nil {
		return derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(stderr, err)
	}
	return 0
}
