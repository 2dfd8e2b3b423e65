package main

import (
	"fmt"
	"os"

	"lizconv/driver"
	"lizconv/liztrack"
	"lizconv/midi"
	"lizconv/timeline"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = info(os.Args[2])
	case "tempo":
		err = tempoMap(os.Args[2])
	case "notes":
		err = notes(os.Args[2])
	case "trace":
		err = trace(os.Args[2])
	case "dump":
		err = dump(os.Args[2])
	default:
		usage()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("liztrack diagnostics")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info  <file.mid>       - Header, tracks and raw messages")
	fmt.Println("  tempo <file.mid>       - Resolved division and tempo map")
	fmt.Println("  notes <file.mid>       - Note events on the millisecond timeline")
	fmt.Println("  trace <file.mid>       - Hex trace of the encoded stream")
	fmt.Println("  dump  <file.liztrack>  - Decode a liztrack file")
}

func info(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := midi.Decode(data)
	if err != nil {
		return err
	}
	f, err := midi.FromSMF(s)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("Format: %d\n", f.Format)
	fmt.Printf("Time format: %v (division %d)\n", s.TimeFormat, f.Division)
	fmt.Printf("Tracks: %d, events: %d\n", len(f.Tracks), f.EventCount())

	for i, track := range s.Tracks {
		fmt.Printf("\n--- Track %d (%d events) ---\n", i, len(track))
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			fmt.Printf("  %8d  +%-6d %s\n", tick, ev.Delta, ev.Message.String())
		}
	}
	return nil
}

func load(path string) (*timeline.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := midi.Parse(data)
	if err != nil {
		return nil, err
	}
	return timeline.Build(f, timeline.Options{}), nil
}

func tempoMap(path string) error {
	tl, err := load(path)
	if err != nil {
		return err
	}

	d := tl.Division
	fmt.Printf("Ticks per beat: %d (frame based: %v, fallback: %v)\n", d.TicksPerBeat, d.FrameBased, d.Fallback)
	fmt.Println("=== Tempo map ===")
	for _, e := range tl.Converter.Map {
		fmt.Printf("  tick %8d  %7d us/beat  %6.2f bpm  at %dms\n",
			e.Tick, e.MicrosecondsPerBeat, 60_000_000/float64(e.MicrosecondsPerBeat), tl.Converter.TimestampMs(e.Tick))
	}
	return nil
}

func notes(path string) error {
	tl, err := load(path)
	if err != nil {
		return err
	}

	fmt.Printf("=== %d note events ===\n", len(tl.Notes))
	for _, n := range tl.Notes {
		state := "off"
		if n.On {
			state = "on"
		}
		fmt.Printf("  %8dms  track %-2d %-3s %d\n", n.TimestampMs, n.Track, state, n.Note)
	}
	return nil
}

func trace(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	conv, err := driver.Convert(data, driver.Options{Overflow: liztrack.Saturate})
	if err != nil {
		return err
	}
	return liztrack.WriteTrace(os.Stdout, conv.Records)
}

func dump(path string) error {
	records, err := liztrack.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s: %d records, %dms ===\n", path, len(records), liztrack.Duration(records))
	var at int64
	for _, r := range records {
		at += int64(r.Delay)
		fmt.Printf("  %8dms  %s\n", at, r)
	}
	return nil
}
