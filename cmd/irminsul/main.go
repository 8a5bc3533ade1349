// Package main provides the irminsul CLI entrypoint.
//
// Usage:
//
//	irminsul capture [--input <pipe>] [--tui] [options]
//	irminsul replay --file <frames.bin> [options]
//	irminsul export --file <frames.bin> [--output <good.json>] [options]
//
// Exit codes:
//   - 0: success
//   - 1: configuration or usage error
//   - 2: stream failure during ingestion
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/irminsul-dev/irminsul/cli/cmd"
	"github.com/irminsul-dev/irminsul/types"
)

func main() {
	app := &cli.App{
		Name:    "irminsul",
		Usage:   "Live inventory reconstruction and GOOD export",
		Version: types.Version,
		Commands: []*cli.Command{
			cmd.CaptureCommand(),
			cmd.ReplayCommand(),
			cmd.ExportCommand(),
		},
		ExitErrHandler: exitErrHandler,
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled coded errors; anything reaching
		// here is a usage failure.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, respecting cli.ExitCoder.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
