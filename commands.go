package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"lizconv/config"
	"lizconv/debug"
	"lizconv/driver"
	"lizconv/theme"
	"lizconv/tone"
	"lizconv/tui"
)

// prepare loads the config, applies the global flag overrides and installs
// the logger on the context. Subcommands call it first so that global flags
// given after the subcommand name are honoured.
func prepare(ctx context.Context, cmd *cli.Command) (context.Context, *config.Config, error) {
	var cfg *config.Config
	var err error
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return ctx, nil, err
	}

	if cmd.IsSet("dir") {
		cfg.TrackDir = cmd.String("dir")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("debug-log") {
		cfg.DebugLog = cmd.String("debug-log")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "lizconv"})
	if cfg.LogLevel != "" {
		level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			return ctx, nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		logger.SetLevel(level)
	}
	log.SetDefault(logger)

	if cfg.DebugLog != "" {
		if err := debug.Enable(cfg.DebugLog); err != nil {
			return ctx, nil, fmt.Errorf("debug log: %w", err)
		}
	}

	return log.WithContext(ctx, logger), cfg, nil
}

// teardown closes the debug log opened by prepare
func teardown(ctx context.Context, cmd *cli.Command) error {
	debug.Disable()
	return nil
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "print hex traces instead of writing files"},
		&cli.BoolFlag{Name: "strict", Usage: "stop at the first file that fails"},
		&cli.StringFlag{Name: "overflow", Usage: "delay overflow policy: saturate, error or truncate"},
		&cli.StringFlag{Name: "source-ext", Usage: "input file extension"},
		&cli.StringFlag{Name: "target-ext", Usage: "output file extension"},
		&cli.IntSliceFlag{Name: "track", Usage: "only take notes from this source track (repeatable)"},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:   "convert",
		Usage:  "convert every MIDI file in the track directory (default command)",
		Flags:  convertFlags(),
		Action: convertAction,
	}
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	ctx, cfg, err := prepare(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("dry-run") {
		cfg.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("strict") {
		cfg.Strict = cmd.Bool("strict")
	}
	if cmd.IsSet("overflow") {
		cfg.Overflow = cmd.String("overflow")
	}
	if cmd.IsSet("source-ext") {
		cfg.SourceExt = cmd.String("source-ext")
	}
	if cmd.IsSet("target-ext") {
		cfg.TargetExt = cmd.String("target-ext")
	}
	if cmd.IsSet("track") {
		cfg.Tracks = cmd.IntSlice("track")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, _ := cfg.OverflowPolicy()

	th, err := theme.Load(cfg.Palette)
	if err != nil {
		log.FromContext(ctx).Warn("using built-in palette", "err", err)
		th = theme.New(nil)
	}

	report, runErr := driver.Run(ctx, driver.Options{
		Dir:       cfg.TrackDir,
		SourceExt: cfg.SourceExt,
		TargetExt: cfg.TargetExt,
		DryRun:    cfg.DryRun,
		Trace:     os.Stdout,
		Strict:    cfg.Strict,
		Overflow:  policy,
		Tracks:    cfg.Tracks,
	})
	if report != nil {
		fmt.Fprint(os.Stderr, renderReport(report, th))
	}
	return runErr
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "browse converted liztrack files",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, cfg, err := prepare(ctx, cmd)
			if err != nil {
				return err
			}

			names, err := driver.List(cfg.TrackDir, cfg.TargetExt)
			if err != nil {
				return err
			}
			th, err := theme.Load(cfg.Palette)
			if err != nil {
				return err
			}

			m := tui.NewModel(tui.LoadTracks(cfg.TrackDir, names), th)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

func addersCommand() *cli.Command {
	return &cli.Command{
		Name:  "adders",
		Usage: "print the per-note phase increment table for the player",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "sample-rate", Value: tone.DefaultSampleRate, Usage: "output sample rate in Hz"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			adders, err := tone.Adders(cmd.Int("sample-rate"))
			if err != nil {
				return err
			}
			fmt.Println(tone.Format(adders))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective config; --save writes it to the config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save", Usage: "write the config file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, cfg, err := prepare(ctx, cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cmd.Bool("save") {
				path := cmd.Root().String("config")
				if path == "" {
					return cfg.Save()
				}
				return cfg.SaveFile(path)
			}
			out, err := cfg.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
