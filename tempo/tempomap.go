package tempo

import (
	"sort"

	"lizconv/midi"
)

// DefaultMicrosecondsPerBeat is 120 BPM.
const DefaultMicrosecondsPerBeat = 500_000

// Entry marks the tempo in force from Tick onward
type Entry struct {
	Tick                int64
	MicrosecondsPerBeat int64
}

// Map is a tempo map sorted ascending by tick. It always has an entry at
// tick 0.
type Map []Entry

// BuildMap collects tempo changes from every track. Each track's ticks are
// accumulated independently from its own delta times.
func BuildMap(tracks [][]midi.Event) Map {
	var m Map

	for _, track := range tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.DeltaTime)
			if ev.Type == midi.SetTempo && ev.MicrosecondsPerBeat > 0 {
				m = append(m, Entry{Tick: tick, MicrosecondsPerBeat: ev.MicrosecondsPerBeat})
			}
		}
	}

	return normalize(m)
}

// NewMap builds a map from explicit entries, sorting them and seeding the
// tick 0 default if needed.
func NewMap(entries ...Entry) Map {
	m := make(Map, len(entries))
	copy(m, entries)
	return normalize(m)
}

func normalize(m Map) Map {
	// stable so that two changes on the same tick keep track order and the
	// later one wins lookups
	sort.SliceStable(m, func(i, j int) bool { return m[i].Tick < m[j].Tick })

	if len(m) == 0 || m[0].Tick > 0 {
		m = append(Map{{Tick: 0, MicrosecondsPerBeat: DefaultMicrosecondsPerBeat}}, m...)
	}
	return m
}

// At returns the tempo in force at tick: the last entry with Tick <= tick.
func (m Map) At(tick int64) int64 {
	i := sort.Search(len(m), func(i int) bool { return m[i].Tick > tick })
	if i == 0 {
		return DefaultMicrosecondsPerBeat
	}
	return m[i-1].MicrosecondsPerBeat
}
