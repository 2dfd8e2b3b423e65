package liztrack

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Decode parses a stream produced by Marshal. The data must end with the
// sentinel and contain nothing after it.
func Decode(data []byte) ([]Record, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMisaligned, len(data))
	}
	if len(data) < RecordSize || !bytes.Equal(data[len(data)-RecordSize:], Sentinel[:]) {
		return nil, ErrNoSentinel
	}

	body := data[:len(data)-RecordSize]
	records := make([]Record, 0, len(body)/RecordSize)
	for off := 0; off < len(body); off += RecordSize {
		chunk := body[off : off+RecordSize]
		if bytes.Equal(chunk, Sentinel[:]) {
			return nil, fmt.Errorf("sentinel at byte %d before end of stream", off)
		}
		records = append(records, Record{
			Delay: uint32(chunk[0]) | uint32(chunk[1])<<8 | uint32(chunk[2])<<16,
			Note:  chunk[3] & 0x7F,
			On:    chunk[3]&NoteOnFlag != 0,
		})
	}
	return records, nil
}

// ReadFile decodes a liztrack file from disk
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Duration returns the offset of the last record in milliseconds
func Duration(records []Record) int64 {
	var total int64
	for _, r := range records {
		total += int64(r.Delay)
	}
	return total
}

// WriteTrace writes the hex trace used by dry runs: each record as
// " dddddddd nn" (8-digit delay, 2-digit note byte), one file per line.
// Delays are the encoded values, after the overflow policy and the
// sentinel adjustment, so the trace matches the bytes a real run writes.
func WriteTrace(w io.Writer, records []Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, " %08x %02x", r.Delay, r.NoteByte()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
