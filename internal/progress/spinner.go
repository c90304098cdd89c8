package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

const spinnerInterval = 100 * time.Millisecond

// Spinner animates a message while a catalog request is in flight.
// Off a terminal it stays silent, so piped output such as `mvm which`
// carries nothing but results.
type Spinner struct {
	mu      sync.Mutex
	output  io.Writer
	message string
	done    chan struct{}
	running bool
	isTTY   bool
}

// NewSpinner creates a spinner drawing on output (os.Stderr when nil).
func NewSpinner(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{
		output: output,
		isTTY:  ShouldShowProgress(),
	}
}

// Start begins animating message. Calling Start on a running spinner only
// replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.running || !s.isTTY {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	go s.animate(s.done)
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", lineWidth))
}

func (s *Spinner) animate(done <-chan struct{}) {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			// Stop may have won the race for the lock.
			if s.running {
				fmt.Fprint(s.output, pad(fmt.Sprintf("\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.message)))
			}
			s.mu.Unlock()
		}
	}
}
