package timeline

import (
	"testing"

	"lizconv/midi"
	"lizconv/tempo"
)

func on(delta uint32, note uint8) midi.Event {
	return midi.Event{Type: midi.NoteOn, DeltaTime: delta, Note: note, Velocity: 100}
}

func off(delta uint32, note uint8) midi.Event {
	return midi.Event{Type: midi.NoteOff, DeltaTime: delta, Note: note}
}

func setTempo(delta uint32, us int64) midi.Event {
	return midi.Event{Type: midi.SetTempo, DeltaTime: delta, MicrosecondsPerBeat: us}
}

func other(delta uint32) midi.Event {
	return midi.Event{Type: midi.Other, DeltaTime: delta}
}

func TestFlattenOrdersByTickThenMergeOrder(t *testing.T) {
	tracks := [][]midi.Event{
		{on(0, 60), off(480, 60)},
		{other(240), on(240, 64), off(0, 64)},
	}

	events := Flatten(tracks)

	type key struct {
		track int
		tick  int64
		typ   midi.EventType
	}
	want := []key{
		{0, 0, midi.NoteOn},
		{1, 240, midi.Other},
		{0, 480, midi.NoteOff}, // track 0 merged before track 1 on a tie
		{1, 480, midi.NoteOn},
		{1, 480, midi.NoteOff},
	}

	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		ev := events[i]
		if ev.Track != w.track || ev.AbsoluteTick != w.tick || ev.Type != w.typ {
			t.Errorf("event %d = track %d tick %d %v, want %+v", i, ev.Track, ev.AbsoluteTick, ev.Type, w)
		}
	}
}

func TestBuildTimestampsAndFilters(t *testing.T) {
	f := &midi.File{
		Division:    480,
		HasDivision: true,
		Tracks: [][]midi.Event{
			{setTempo(0, 500_000), setTempo(960, 1_000_000), other(0)},
			{on(0, 60), off(480, 60), on(480, 62), off(480, 62)},
		},
	}

	tl := Build(f, Options{})

	if tl.Division.TicksPerBeat != 480 {
		t.Errorf("TicksPerBeat = %d", tl.Division.TicksPerBeat)
	}

	want := []NoteEvent{
		{TimestampMs: 0, Note: 60, On: true, Track: 1},
		{TimestampMs: 500, Note: 60, On: false, Track: 1},
		{TimestampMs: 1000, Note: 62, On: true, Track: 1},
		{TimestampMs: 2000, Note: 62, On: false, Track: 1}, // 480 ticks at 60 bpm
	}
	if len(tl.Notes) != len(want) {
		t.Fatalf("got %d notes, want %d: %+v", len(tl.Notes), len(want), tl.Notes)
	}
	for i := range want {
		if tl.Notes[i] != want[i] {
			t.Errorf("note %d = %+v, want %+v", i, tl.Notes[i], want[i])
		}
	}

	if len(tl.Events) != 7 {
		t.Errorf("got %d events, want all 7", len(tl.Events))
	}
}

func TestBuildFallbackDivision(t *testing.T) {
	f := &midi.File{Tracks: [][]midi.Event{{on(480, 60)}}}

	tl := Build(f, Options{})
	if !tl.Division.Fallback || tl.Division.TicksPerBeat != tempo.FallbackTicksPerBeat {
		t.Errorf("Division = %+v, want fallback", tl.Division)
	}
	if tl.Notes[0].TimestampMs != 500 {
		t.Errorf("TimestampMs = %d, want 500", tl.Notes[0].TimestampMs)
	}
}

func TestBuildTrackFilterKeepsTempo(t *testing.T) {
	f := &midi.File{
		Division:    480,
		HasDivision: true,
		Tracks: [][]midi.Event{
			{setTempo(0, 1_000_000), on(0, 40)},
			{on(480, 60)},
			{on(480, 70)},
		},
	}

	tl := Build(f, Options{Tracks: []int{1}})
	if len(tl.Notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(tl.Notes))
	}
	n := tl.Notes[0]
	if n.Note != 60 || n.TimestampMs != 1000 {
		t.Errorf("note = %+v, want note 60 at 1000ms", n)
	}
}

func TestNotesStableOnEqualTimestamps(t *testing.T) {
	// three notes land on tick 1 from two tracks; they must keep merge
	// order through the timestamp sort
	tracks := [][]midi.Event{
		{on(1, 10), off(0, 11)},
		{on(0, 20), on(1, 21)},
	}
	conv := tempo.NewConverter(tempo.NewMap(), 480)
	events := Flatten(tracks)
	for i := range events {
		events[i].TimestampMs = conv.TimestampMs(events[i].AbsoluteTick)
	}

	notes := Notes(events, Options{})
	var got []uint8
	for _, n := range notes {
		got = append(got, n.Note)
	}
	want := []uint8{20, 10, 11, 21}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("note order = %v, want %v", got, want)
		}
	}
}
