package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/irminsul-dev/irminsul/capture"
	"github.com/irminsul-dev/irminsul/cli/tui"
	"github.com/irminsul-dev/irminsul/pipeline"
)

// CaptureCommand returns the capture command: live ingestion from the
// decoding collaborator's frame stream.
func CaptureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Ingest a live decoded frame stream and export on completion",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "input",
				Usage: "Frame stream source: a pipe path, or - for stdin",
				Value: "-",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show the live capture view",
			},
		),
		Action: runCapture,
	}
}

func runCapture(c *cli.Context) error {
	e, err := buildEnv(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	var src capture.Source
	if path := c.String("input"); path == "-" {
		src = capture.NewReaderSource(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
		src = capture.NewReaderSource(f)
	}

	var engineOpts []pipeline.EngineOption
	if e.cfg.Capture.FrameLog != "" {
		frameLog, err := capture.NewFrameLogger(e.cfg.Capture.FrameLog)
		if err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
		defer frameLog.Close()
		engineOpts = append(engineOpts, pipeline.WithFrameLog(frameLog))
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Bool("tui") {
		// The capture view owns the terminal; stderr log lines would tear it.
		e.logger = e.logger.WithOutput(io.Discard)
	}

	sup := pipeline.NewSupervisor(e.sess, e.logger, e.collector, engineOpts...)
	sup.Attach(ctx, src)

	if c.Bool("tui") {
		exportFn := func() (string, error) {
			path, _, err := exportSnapshot(ctx, e, e.cfg.Export.Output)
			return path, err
		}
		if err := tui.RunCaptureTUI(e.sess, e.collector, exportFn); err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
		stop()
	}

	streamErr := sup.Wait()

	if e.cfg.Export.Output != "" || e.cfg.Storage.Backend != "" {
		if _, _, err := exportSnapshot(context.Background(), e, e.cfg.Export.Output); err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
	}

	if err := printSummary(e); err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	if streamErr != nil && !errors.Is(streamErr, context.Canceled) {
		return cli.Exit(streamErr.Error(), exitStreamError)
	}
	return nil
}
