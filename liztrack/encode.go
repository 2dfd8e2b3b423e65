package liztrack

import (
	"fmt"

	"lizconv/timeline"
)

// Encoder turns timestamp-ordered note events into liztrack records
type Encoder struct {
	Overflow OverflowPolicy
}

// Records computes the delay of every note relative to the previous one.
// Negative delays clamp to zero.
func (e Encoder) Records(notes []timeline.NoteEvent) ([]Record, error) {
	records := make([]Record, 0, len(notes))

	var last int64
	for i, n := range notes {
		delay := max(0, n.TimestampMs-last)
		last = n.TimestampMs

		d, err := e.fitDelay(delay)
		if err != nil {
			return nil, fmt.Errorf("note %d at %dms: %w", i, n.TimestampMs, err)
		}
		r := Record{Delay: d, Note: n.Note, On: n.On}
		if r.Delay == MaxDelay && r.NoteByte() == 0xFF {
			// would read back as the sentinel
			r.Delay--
		}
		records = append(records, r)
	}

	return records, nil
}

func (e Encoder) fitDelay(delay int64) (uint32, error) {
	if delay <= MaxDelay {
		return uint32(delay), nil
	}

	switch e.Overflow {
	case Fail:
		return 0, fmt.Errorf("%w: %dms", ErrDelayOverflow, delay)
	case Truncate:
		return uint32(delay) & MaxDelay, nil
	}
	return MaxDelay, nil
}

// Encode returns the full stream for notes. No notes yields a nil buffer,
// which callers treat as "nothing to write".
func (e Encoder) Encode(notes []timeline.NoteEvent) ([]byte, error) {
	records, err := e.Records(notes)
	if err != nil {
		return nil, err
	}
	return Marshal(records), nil
}

// Marshal writes records followed by the sentinel. An empty record list
// marshals to nil.
func Marshal(records []Record) []byte {
	if len(records) == 0 {
		return nil
	}
	buf := make([]byte, 0, (len(records)+1)*RecordSize)
	for _, r := range records {
		buf = r.AppendTo(buf)
	}
	return append(buf, Sentinel[:]...)
}
