// Package timeline merges every track of a MIDI file onto one absolute
// millisecond timeline and extracts the note events.
package timeline

import (
	"sort"

	"lizconv/midi"
	"lizconv/tempo"
)

// AbsoluteEvent is a track event placed on the global timeline
type AbsoluteEvent struct {
	midi.Event
	AbsoluteTick int64
	TimestampMs  int64
}

// NoteEvent is a note-on or note-off at an absolute time
type NoteEvent struct {
	TimestampMs int64
	Note        uint8
	On          bool
	Track       int
}

// Options restricts which events become NoteEvents.
type Options struct {
	// Tracks lists the source track indices whose notes are kept. Empty
	// keeps every track. Tempo changes are always read from all tracks.
	Tracks []int
}

// Timeline is the normalized form of one file
type Timeline struct {
	Division  tempo.Division
	Converter tempo.Converter
	Events    []AbsoluteEvent // every event, sorted by tick
	Notes     []NoteEvent     // note events, sorted by timestamp
}

// Build normalizes f: tempo map, absolute ticks, global tick order,
// millisecond timestamps and the filtered note list.
func Build(f *midi.File, opts Options) *Timeline {
	div := tempo.ResolveDivision(f.Division, f.HasDivision)
	conv := tempo.NewConverter(tempo.BuildMap(f.Tracks), div.TicksPerBeat)

	events := Flatten(f.Tracks)
	for i := range events {
		events[i].TimestampMs = conv.TimestampMs(events[i].AbsoluteTick)
	}

	return &Timeline{
		Division:  div,
		Converter: conv,
		Events:    events,
		Notes:     Notes(events, opts),
	}
}

// Flatten tags every event with its absolute tick and merges all tracks
// into one list ordered by tick. Ties keep merge order: track index, then
// position within the track.
func Flatten(tracks [][]midi.Event) []AbsoluteEvent {
	n := 0
	for _, tr := range tracks {
		n += len(tr)
	}

	all := make([]AbsoluteEvent, 0, n)
	for trackNumber, track := range tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.DeltaTime)
			ev.Track = trackNumber
			all = append(all, AbsoluteEvent{Event: ev, AbsoluteTick: tick})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].AbsoluteTick < all[j].AbsoluteTick
	})
	return all
}

// Notes keeps the note events of timestamped events and orders them by
// timestamp. The sort is stable, so equal timestamps keep tick order.
func Notes(events []AbsoluteEvent, opts Options) []NoteEvent {
	keep := trackSet(opts.Tracks)

	var notes []NoteEvent
	for _, ev := range events {
		if !ev.IsNote() {
			continue
		}
		if keep != nil && !keep[ev.Track] {
			continue
		}
		notes = append(notes, NoteEvent{
			TimestampMs: ev.TimestampMs,
			Note:        ev.Note & 0x7F,
			On:          ev.Type == midi.NoteOn,
			Track:       ev.Track,
		})
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].TimestampMs < notes[j].TimestampMs
	})
	return notes
}

func trackSet(tracks []int) map[int]bool {
	if len(tracks) == 0 {
		return nil
	}
	set := make(map[int]bool, len(tracks))
	for _, t := range tracks {
		set[t] = true
	}
	return set
}
