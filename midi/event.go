package midi

// EventType classifies a parsed track event
type EventType uint8

const (
	Other EventType = iota // anything we do not transcode (CC, program change, meta, sysex)
	NoteOn
	NoteOff
	SetTempo
)

func (t EventType) String() string {
	switch t {
	case NoteOn:
		return "noteOn"
	case NoteOff:
		return "noteOff"
	case SetTempo:
		return "setTempo"
	}
	return "other"
}

// Event is one event as read from a track. DeltaTime is in ticks since the
// previous event of the same track.
type Event struct {
	Type                EventType
	DeltaTime           uint32
	Track               int
	Channel             uint8
	Note                uint8 // NoteOn, NoteOff
	Velocity            uint8 // NoteOn
	MicrosecondsPerBeat int64 // SetTempo
}

// IsNote reports whether the event is a note-on or note-off
func (e Event) IsNote() bool {
	return e.Type == NoteOn || e.Type == NoteOff
}

// File is the parsed form of a standard MIDI file.
type File struct {
	Format uint16

	// Division is the raw 16-bit timing division from the header, sign
	// extended. Negative values are SMPTE encoded. HasDivision is false when
	// the header carried no usable time format.
	Division    int
	HasDivision bool

	Tracks [][]Event
}

// EventCount returns the total number of events across all tracks
func (f *File) EventCount() int {
	n := 0
	for _, tr := range f.Tracks {
		n += len(tr)
	}
	return n
}
