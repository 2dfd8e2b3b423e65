package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "lizconv",
		Usage: "convert MIDI files to liztrack note streams",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default ~/.config/lizconv/config.json)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "track directory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "debug-log",
				Usage: "write a per-event trace to this file",
			},
		},
		After:  teardown,
		Action: convertAction,
		Commands: []*cli.Command{
			convertCommand(),
			browseCommand(),
			addersCommand(),
			configCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, "Use --help for more information.")
		os.Exit(1)
	}
}
