package theme

import (
	"strings"
	"testing"
)

const sampleGPL = `GIMP Palette
Name: test
Columns: 2
# comment
0 0 0	Black
255 255 255	White
300 0 0	out of range
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(sampleGPL))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("got %d colors, want 2", len(p.Colors))
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("empty palette accepted")
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	if c := p.Lookup(-1); c != (RGB{0, 0, 0}) {
		t.Errorf("Lookup(-1) = %v", c)
	}
	if c := p.Lookup(2); c != (RGB{200, 100, 50}) {
		t.Errorf("Lookup(2) = %v", c)
	}
	if c := p.Lookup(0.5); c != (RGB{100, 50, 25}) {
		t.Errorf("Lookup(0.5) = %v", c)
	}
}

func TestThemeColors(t *testing.T) {
	th := New(nil)
	if th.Palette.Name != "plasma" {
		t.Errorf("default palette = %q", th.Palette.Name)
	}
	if got := string(th.Color(0)); got != "#0d0887" {
		t.Errorf("Color(0) = %q", got)
	}
	if th.NoteColor(127) != th.Success() {
		t.Error("top note should map to the end of the palette")
	}

	if _, err := Load("/nonexistent/palette.gpl"); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
