package liztrack

import (
	"bytes"
	"errors"
	"testing"

	"lizconv/timeline"
)

func note(ms int64, n uint8, on bool) timeline.NoteEvent {
	return timeline.NoteEvent{TimestampMs: ms, Note: n, On: on}
}

func TestEncodeTwoNotes(t *testing.T) {
	buf, err := Encoder{}.Encode([]timeline.NoteEvent{
		note(0, 60, true),
		note(1000, 64, true),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x00, 0x00, 0x00, 60 | 0x80,
		0xE8, 0x03, 0x00, 64 | 0x80,
		0xFF, 0xFF, 0xFF, 0xFF,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("Encode = % x, want % x", buf, want)
	}
}

func TestEncodeNoteOffAndDelays(t *testing.T) {
	buf, err := Encoder{}.Encode([]timeline.NoteEvent{
		note(5, 60, true),
		note(5, 64, true),
		note(0x012345, 60, false),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x05, 0x00, 0x00, 0xBC,
		0x00, 0x00, 0x00, 0xC0,
		0x40, 0x23, 0x01, 0x3C, // 0x012345 - 5
		0xFF, 0xFF, 0xFF, 0xFF,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("Encode = % x, want % x", buf, want)
	}
}

func TestEncodeClampsNegativeDelay(t *testing.T) {
	records, err := Encoder{}.Records([]timeline.NoteEvent{
		note(100, 1, true),
		note(40, 2, true),
		note(50, 3, true),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []uint32{100, 0, 10}
	for i, r := range records {
		if r.Delay != want[i] {
			t.Errorf("record %d delay = %d, want %d", i, r.Delay, want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	buf, err := Encoder{}.Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if buf != nil {
		t.Errorf("Encode(nil) = % x, want nil", buf)
	}
}

func TestEncodeOverflow(t *testing.T) {
	const late = MaxDelay + 0x10

	tests := []struct {
		policy OverflowPolicy
		want   uint32
		err    error
	}{
		{Saturate, MaxDelay, nil},
		{"", MaxDelay, nil},
		{Truncate, 0x0F, nil},
		{Fail, 0, ErrDelayOverflow},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			records, err := Encoder{Overflow: tt.policy}.Records([]timeline.NoteEvent{
				note(0, 60, true),
				note(late, 60, false),
			})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if records[1].Delay != tt.want {
				t.Errorf("delay = %#x, want %#x", records[1].Delay, tt.want)
			}
		})
	}
}

func TestEncodeNeverEmitsSentinelRecord(t *testing.T) {
	buf, err := Encoder{Overflow: Saturate}.Encode([]timeline.NoteEvent{
		note(MaxDelay+1000, 127, true),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(buf, want) {
		t.Errorf("Encode = % x, want % x", buf, want)
	}

	records, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("decoded %d records, want 1", len(records))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	notes := []timeline.NoteEvent{
		note(0, 60, true), note(250, 60, false), note(250, 67, true), note(900, 67, false),
	}
	a, _ := Encoder{}.Encode(notes)
	b, _ := Encoder{}.Encode(notes)
	if !bytes.Equal(a, b) {
		t.Errorf("two encodings differ:\n% x\n% x", a, b)
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	for in, want := range map[string]OverflowPolicy{
		"saturate": Saturate,
		" ERROR ":  Fail,
		"truncate": Truncate,
		"":         Saturate,
	} {
		got, err := ParseOverflowPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseOverflowPolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseOverflowPolicy("split"); err == nil {
		t.Error("ParseOverflowPolicy(split) succeeded")
	}
}
