// Package progress draws terminal feedback for long-running mvm operations:
// a byte-count bar for server.jar downloads and a spinner for catalog lookups.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// IsTerminalFunc reports whether fd is a terminal. Tests override it.
var IsTerminalFunc = term.IsTerminal

const (
	lineWidth   = 80
	barWidth    = 30
	redrawEvery = 100 * time.Millisecond
)

// Writer counts bytes written through it and redraws a progress line on
// output. It is safe to use from one writer goroutine while Finish is
// called from another.
type Writer struct {
	dst    io.Writer
	output io.Writer
	label  string
	total  int64

	mu        sync.Mutex
	written   int64
	start     time.Time
	lastDrawn time.Time
	now       func() time.Time
}

// NewWriter wraps dst. total <= 0 means the size is unknown and only the
// byte count and rate are shown.
func NewWriter(dst io.Writer, total int64, output io.Writer, label string) *Writer {
	return &Writer{
		dst:    dst,
		output: output,
		label:  label,
		total:  total,
		start:  time.Now(),
		now:    time.Now,
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	if n > 0 {
		w.mu.Lock()
		w.written += int64(n)
		w.draw(false)
		w.mu.Unlock()
	}
	return n, err
}

// Written returns the number of bytes passed through so far.
func (w *Writer) Written() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Finish clears the progress line.
func (w *Writer) Finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.output, "\r%s\r", strings.Repeat(" ", lineWidth))
}

func (w *Writer) draw(force bool) {
	now := w.now()
	if !force && now.Sub(w.lastDrawn) < redrawEvery {
		return
	}
	w.lastDrawn = now

	elapsed := now.Sub(w.start).Seconds()
	if elapsed <= 0 {
		elapsed = 0.001
	}
	rate := float64(w.written) / elapsed

	_, _ = fmt.Fprint(w.output, pad(w.line(rate)))
}

func (w *Writer) line(rate float64) string {
	prefix := "\r   "
	if w.label != "" {
		prefix += w.label + " "
	}

	if w.total <= 0 {
		return fmt.Sprintf("%s%s (%s/s)", prefix, formatBytes(w.written), formatBytes(int64(rate)))
	}

	percent := float64(w.written) / float64(w.total) * 100
	if percent > 100 {
		percent = 100
	}

	eta := "--:--"
	if rate > 0 {
		eta = formatDuration(float64(w.total-w.written) / rate)
	}

	return fmt.Sprintf("%s%s %3.0f%% (%s/%s) %s/s ETA %s",
		prefix, bar(percent), percent,
		formatBytes(w.written), formatBytes(w.total), formatBytes(int64(rate)), eta)
}

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled >= barWidth {
		return "[" + strings.Repeat("=", barWidth) + "]"
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barWidth-filled-1) + "]"
}

func pad(line string) string {
	if len(line) < lineWidth {
		return line + strings.Repeat(" ", lineWidth-len(line))
	}
	return line
}

// formatBytes renders IEC sizes ("1.5 MiB").
func formatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}

// formatDuration formats seconds as M:SS or H:MM:SS.
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ShouldShowProgress reports whether stderr, where progress is drawn, is a
// terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}
