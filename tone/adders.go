// Package tone computes the phase increments the liztrack player adds to
// a 16.16 phase accumulator to sound each MIDI note.
package tone

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultSampleRate = 44100
	NoteCount         = 128
)

// Frequency returns the equal-tempered frequency of a MIDI note (A4 = 69 = 440 Hz)
func Frequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// Adder returns the per-sample phase increment for note at sampleRate
func Adder(note, sampleRate int) uint32 {
	return uint32(math.Round(Frequency(note) / float64(sampleRate) * 65536))
}

// Adders returns the increments for every MIDI note
func Adders(sampleRate int) ([]uint32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	out := make([]uint32, NoteCount)
	for n := range out {
		out[n] = Adder(n, sampleRate)
	}
	return out, nil
}

// Format renders a table as a comma separated list of hex literals
func Format(adders []uint32) string {
	parts := make([]string, len(adders))
	for i, a := range adders {
		parts[i] = fmt.Sprintf("0x%x", a)
	}
	return strings.Join(parts, ",")
}
