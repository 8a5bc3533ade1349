package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/irminsul-dev/irminsul/capture"
	"github.com/irminsul-dev/irminsul/pipeline"
)

// ReplayCommand returns the replay command: re-run a recorded frame log
// and report the reconstructed session state.
func ReplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Re-ingest a recorded frame log and print the session summary",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Recorded frame log path",
				Required: true,
			},
		),
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	e, err := buildEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	if err := ingestFile(c, e, c.String("file")); err != nil {
		return err
	}

	if err := printSummary(e); err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	return nil
}

// ingestFile replays one frame log into the session.
func ingestFile(c *cli.Context, e *env, path string) error {
	src, err := capture.NewReplaySource(path)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	defer src.Close()

	engine := pipeline.NewEngine(src, e.sess, e.logger, e.collector)
	if err := engine.Run(c.Context); err != nil {
		return cli.Exit(err.Error(), exitStreamError)
	}
	return nil
}
