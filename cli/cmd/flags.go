package cmd

import "github.com/urfave/cli/v2"

// commonFlags are shared by every command that builds a session runtime.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to irminsul.yaml",
		},
		&cli.StringFlag{
			Name:  "refdata",
			Usage: "Path to the reference dataset JSON (overrides config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Path the GOOD payload is written to (overrides config)",
		},
		&cli.StringFlag{
			Name:  "frame-log",
			Usage: "Record raw frames to this path for later replay (overrides config)",
		},
	}
}
