// Package driver runs the MIDI to liztrack conversion over a directory.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"lizconv/debug"
	"lizconv/liztrack"
	"lizconv/midi"
	"lizconv/timeline"
)

// Options controls a conversion run
type Options struct {
	Dir       string
	SourceExt string
	TargetExt string

	// DryRun prints each file's hex trace to Trace instead of writing the
	// output file.
	DryRun bool
	Trace  io.Writer

	// Strict stops the run at the first file that fails. Otherwise the
	// failure is recorded and the next file is processed.
	Strict bool

	Overflow liztrack.OverflowPolicy
	Tracks   []int
}

// Conversion is the in-memory result of converting one MIDI buffer
type Conversion struct {
	Timeline *timeline.Timeline
	Records  []liztrack.Record
	Data     []byte // nil when the file has no notes
}

// Convert parses a MIDI buffer and encodes its notes.
func Convert(data []byte, opts Options) (*Conversion, error) {
	f, err := midi.Parse(data)
	if err != nil {
		return nil, err
	}

	tl := timeline.Build(f, timeline.Options{Tracks: opts.Tracks})

	enc := liztrack.Encoder{Overflow: opts.Overflow}
	records, err := enc.Records(tl.Notes)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		Timeline: tl,
		Records:  records,
		Data:     liztrack.Marshal(records),
	}, nil
}

// List returns the names of files in dir ending in ext, in directory order
// (sorted by name).
func List(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// OutputName swaps the source extension at the end of name for the target
// extension.
func OutputName(name, sourceExt, targetExt string) string {
	return strings.TrimSuffix(name, sourceExt) + targetExt
}

// Run converts every matching file in opts.Dir, one at a time, in name
// order. The returned error is non-nil only when the directory cannot be
// listed or a strict run hits a failing file.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := log.FromContext(ctx)

	names, err := List(opts.Dir, opts.SourceExt)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", opts.Dir, err)
	}
	logger.Debug("found input files", "dir", opts.Dir, "count", len(names))

	report := &Report{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := ConvertFile(ctx, filepath.Join(opts.Dir, name), opts)
		report.Results = append(report.Results, res)

		if res.Status == Failed && opts.Strict {
			return report, fmt.Errorf("%s: %w", name, res.Err)
		}
	}

	return report, nil
}

// ConvertFile runs the whole pipeline for one file and writes (or traces)
// its output.
func ConvertFile(ctx context.Context, path string, opts Options) Result {
	logger := log.FromContext(ctx).With("file", filepath.Base(path))
	res := Result{Input: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res.fail(logger, err)
	}

	conv, err := Convert(data, opts)
	if err != nil {
		return res.fail(logger, err)
	}

	tl := conv.Timeline
	res.Division = tl.Division
	res.TempoEntries = len(tl.Converter.Map)
	res.Notes = len(conv.Records)
	res.Bytes = len(conv.Data)
	res.DurationMs = liztrack.Duration(conv.Records)

	if tl.Division.Fallback {
		logger.Warn("invalid timing division, using fallback", "ticksPerBeat", tl.Division.TicksPerBeat)
	}
	for _, e := range tl.Converter.Map {
		debug.Log("tempo", "%s tick=%d us/beat=%d", filepath.Base(path), e.Tick, e.MicrosecondsPerBeat)
	}
	for _, n := range tl.Notes {
		debug.LogEvery(64, "note", "%s t=%dms note=%d on=%v", filepath.Base(path), n.TimestampMs, n.Note, n.On)
	}

	if len(conv.Data) == 0 {
		res.Status = Empty
		logger.Info("no note events, nothing written")
		return res
	}

	if opts.DryRun {
		res.Status = Traced
		if err := writeTrace(opts.Trace, filepath.Base(path), conv.Records); err != nil {
			return res.fail(logger, err)
		}
		return res
	}

	res.Output = filepath.Join(filepath.Dir(path), OutputName(filepath.Base(path), opts.SourceExt, opts.TargetExt))
	if err := os.WriteFile(res.Output, conv.Data, 0644); err != nil {
		return res.fail(logger, err)
	}

	res.Status = Written
	logger.Info("wrote", "output", filepath.Base(res.Output), "notes", res.Notes, "bytes", res.Bytes)
	return res
}

func writeTrace(w io.Writer, name string, records []liztrack.Record) error {
	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprintf(w, "%s:", name); err != nil {
		return err
	}
	return liztrack.WriteTrace(w, records)
}

func (r Result) fail(logger *log.Logger, err error) Result {
	r.Status = Failed
	r.Err = err
	if errors.Is(err, liztrack.ErrDelayOverflow) {
		logger.Error("delay overflow", "err", err)
	} else {
		logger.Error("conversion failed", "err", err)
	}
	return r
}
