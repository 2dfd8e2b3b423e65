// Package debug is a category trace log for following a conversion event by
// event. It is off unless a destination is set.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu       sync.Mutex
	sink     io.Writer
	closer   io.Closer
	counters = make(map[string]int)
)

// Enable starts logging to path, truncating it
func Enable(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	EnableWriter(f)
	mu.Lock()
	closer = f
	mu.Unlock()
	return nil
}

// EnableWriter starts logging to w. Any previous destination is closed.
func EnableWriter(w io.Writer) {
	Disable()

	mu.Lock()
	defer mu.Unlock()
	sink = w
	// Write directly (can't call Log - we hold the mutex)
	writeLine("debug", "=== trace started ===")
}

// Disable stops logging and closes the file opened by Enable
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer.Close()
		closer = nil
	}
	sink = nil
	counters = make(map[string]int)
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return sink != nil
}

// Log writes a message under category
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if sink == nil {
		return
	}
	writeLine(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every n-th call with the same category and format
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func writeLine(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(sink, "[%s] %-10s %s\n", ts, category, msg)
	if f, ok := sink.(*os.File); ok {
		f.Sync() // flush immediately so we see logs even on crash
	}
}
