package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabled(t *testing.T) {
	Disable()
	if Enabled() {
		t.Fatal("enabled after Disable")
	}
	Log("tempo", "dropped %d", 1) // must not panic
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("tempo", "tick=%d", 480)
	for i := 0; i < 5; i++ {
		LogEvery(2, "note", "n=%d", i)
	}

	out := buf.String()
	if !strings.Contains(out, "trace started") {
		t.Errorf("missing start line:\n%s", out)
	}
	if !strings.Contains(out, "tempo") || !strings.Contains(out, "tick=480") {
		t.Errorf("missing tempo line:\n%s", out)
	}
	if n := strings.Count(out, "note "); n != 2 {
		t.Errorf("LogEvery wrote %d lines, want 2:\n%s", n, out)
	}
}

func TestEnableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	if err := Enable(path); err != nil {
		t.Fatal(err)
	}
	Log("driver", "hello")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}
