package midi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	// ErrNoTracks is returned for a file whose header declares no track chunks.
	ErrNoTracks = errors.New("midi file has no tracks")

	// ErrMalformed wraps a panic raised by the underlying decoder.
	ErrMalformed = errors.New("malformed midi file")
)

// metricStandIn replaces an SMPTE division word before decoding. gomidi
// only computes absolute times for metric files; Event deltas are unaffected.
const metricStandIn = 960

// Parse reads a standard MIDI file from a byte buffer.
func Parse(data []byte) (*File, error) {
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}

// Read reads a standard MIDI file and flattens every track into Events.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI: %w", err)
	}
	return Parse(data)
}

// Decode runs gomidi over data. SMPTE timed files are decoded with a
// metric stand-in division and get their smf.TimeCode restored afterwards.
func Decode(data []byte) (s *smf.SMF, err error) {
	raw, smpte := headerDivision(data)
	if smpte {
		data = bytes.Clone(data)
		binary.BigEndian.PutUint16(data[12:14], metricStandIn)
	}

	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	s, err = smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}
	if smpte {
		s.TimeFormat = smf.TimeCode{
			FramesPerSecond: uint8(-int8(raw >> 8)),
			SubFrames:       uint8(raw),
		}
	}
	return s, nil
}

// headerDivision reads the division word of an MThd chunk and reports
// whether it is SMPTE encoded.
func headerDivision(data []byte) (uint16, bool) {
	if len(data) < 14 || string(data[:4]) != "MThd" {
		return 0, false
	}
	raw := binary.BigEndian.Uint16(data[12:14])
	return raw, raw&0x8000 != 0
}

// FromSMF converts an already decoded gomidi SMF.
func FromSMF(s *smf.SMF) (*File, error) {
	if len(s.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	f := &File{
		Format: s.Format(),
		Tracks: make([][]Event, len(s.Tracks)),
	}
	f.Division, f.HasDivision = RawDivision(s.TimeFormat)

	for i, track := range s.Tracks {
		events := make([]Event, 0, len(track))
		for _, ev := range track {
			events = append(events, convertEvent(i, ev))
		}
		f.Tracks[i] = events
	}

	return f, nil
}

// RawDivision rebuilds the header's signed division word from a gomidi
// time format. SMPTE formats come back negative: the high byte holds the
// negated frame rate and the low byte the ticks per frame.
func RawDivision(tf smf.TimeFormat) (int, bool) {
	switch v := tf.(type) {
	case smf.MetricTicks:
		return int(v), true
	case smf.TimeCode:
		hi := uint16(uint8(-int(v.FramesPerSecond)))
		return int(int16(hi<<8 | uint16(v.SubFrames))), true
	}
	return 0, false
}

func convertEvent(track int, ev smf.Event) Event {
	out := Event{
		Type:      Other,
		DeltaTime: ev.Delta,
		Track:     track,
	}

	msg := ev.Message
	var ch, key, vel uint8
	var bpm float64

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		out.Type = NoteOn
		out.Channel, out.Note, out.Velocity = ch, key, vel
	case msg.GetNoteEnd(&ch, &key):
		// includes note-on with velocity 0
		out.Type = NoteOff
		out.Channel, out.Note = ch, key
	case msg.GetMetaTempo(&bpm):
		if bpm > 0 {
			out.Type = SetTempo
			out.MicrosecondsPerBeat = int64(math.Round(60_000_000 / bpm))
		}
	}

	return out
}
