// Package liztrack reads and writes the liztrack note stream.
//
// A stream is a run of 4-byte records followed by the sentinel FF FF FF FF.
// Each record is a 3-byte little-endian delay in milliseconds since the
// previous record, then one note byte: bit 7 set for note-on, bits 0-6 the
// note number. There is no header.
package liztrack

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RecordSize = 4
	MaxDelay   = 0xFFFFFF
	NoteOnFlag = 0x80
)

// Sentinel terminates every stream
var Sentinel = [RecordSize]byte{0xFF, 0xFF, 0xFF, 0xFF}

var (
	ErrDelayOverflow = errors.New("delay exceeds 24-bit field")
	ErrNoSentinel    = errors.New("stream is not terminated by sentinel")
	ErrMisaligned    = errors.New("stream length is not a multiple of the record size")
)

// Record is one delay+note pair
type Record struct {
	Delay uint32 // milliseconds since the previous record
	Note  uint8  // 0-127
	On    bool
}

// NoteByte packs the note number and on/off flag
func (r Record) NoteByte() byte {
	b := r.Note & 0x7F
	if r.On {
		b |= NoteOnFlag
	}
	return b
}

// AppendTo appends the 4-byte encoding of r
func (r Record) AppendTo(buf []byte) []byte {
	return append(buf,
		byte(r.Delay),
		byte(r.Delay>>8),
		byte(r.Delay>>16),
		r.NoteByte(),
	)
}

func (r Record) String() string {
	state := "off"
	if r.On {
		state = "on"
	}
	return fmt.Sprintf("+%dms %s %d", r.Delay, state, r.Note)
}

// OverflowPolicy decides what happens to a delay above MaxDelay
type OverflowPolicy string

const (
	Saturate OverflowPolicy = "saturate" // clamp to MaxDelay
	Fail     OverflowPolicy = "error"    // return ErrDelayOverflow
	Truncate OverflowPolicy = "truncate" // keep the low 24 bits
)

// ParseOverflowPolicy accepts the names used in config files and flags
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case Saturate, Fail, Truncate:
		return p, nil
	case "":
		return Saturate, nil
	}
	return "", fmt.Errorf("unknown overflow policy %q (want saturate, error or truncate)", s)
}
