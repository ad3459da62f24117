package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerFrames are the characters cycled through for the spinner animation.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// LineSpinner manages a set of lines where some have a spinning indicator
// that updates in-place until resolved. The generate command gives each
// action one line and resolves it as its prompt lands.
type LineSpinner struct {
	mu    sync.Mutex
	w     io.Writer
	lines []spinnerLine
	done  chan struct{}
	once  sync.Once
	frame int
}

type spinnerLine struct {
	text     string // the full line text (with %s placeholder for status)
	status   string // resolved status text, empty while spinning
	resolved bool
}

// NewLineSpinner creates a spinner that writes to stdout.
func NewLineSpinner(count int) *LineSpinner {
	return &LineSpinner{
		w:     os.Stdout,
		lines: make([]spinnerLine, count),
		done:  make(chan struct{}),
	}
}

// SetLine sets the format text for a line. The text should contain one %s
// placeholder where the status (spinner or resolved value) will be inserted.
func (s *LineSpinner) SetLine(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[index].text = text
}

// Resolve replaces the spinner on the given line with a final status string.
// Resolving the last spinning line ends Run.
func (s *LineSpinner) Resolve(index int, status string) {
	s.mu.Lock()
	s.lines[index].status = status
	s.lines[index].resolved = true

	allDone := true
	for _, l := range s.lines {
		if !l.resolved {
			allDone = false
			break
		}
	}
	s.mu.Unlock()

	if allDone {
		s.Stop()
	}
}

// Stop ends the animation even if lines are still unresolved. Safe to call
// more than once.
func (s *LineSpinner) Stop() {
	s.once.Do(func() { close(s.done) })
}

// Run starts the spinner animation. It prints all lines initially, then
// updates them in-place at ~80ms intervals. It blocks until all lines are
// resolved or Stop is called.
func (s *LineSpinner) Run() {
	if len(s.lines) == 0 {
		return
	}

	// Hide the cursor and save its position so redraws can restore it.
	fmt.Fprint(s.w, "\033[?25l\0337")
	s.draw()
	defer fmt.Fprint(s.w, "\033[?25h")

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			s.redraw()
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame++
			s.mu.Unlock()
			s.redraw()
		}
	}
}

// redraw restores the saved cursor position, clears to end of screen, and
// reprints all lines.
func (s *LineSpinner) redraw() {
	fmt.Fprint(s.w, "\0338\033[J")
	s.draw()
}

func (s *LineSpinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	frameChar := spinnerFrames[s.frame%len(spinnerFrames)]
	for _, l := range s.lines {
		status := progressPrefix.Render(frameChar)
		if l.resolved {
			status = l.status
		}
		fmt.Fprintf(s.w, "%s\n", fmt.Sprintf(l.text, status))
	}
}

// Spin displays a spinner animation alongside msg while fn executes.
// On success the spinner line is replaced with "✓ <msg>".
// On error it is replaced with "› <msg>" so subsequent error output
// reads naturally.
//
// Example:
//
//	err := output.Spin("Generating concise-review", func() error {
//	    return generateVariant(...)
//	})
func Spin(msg string, fn func() error) error {
	return spinTo(os.Stdout, msg, fn)
}

// spinTo is the testable core of Spin, accepting an explicit writer.
func spinTo(w io.Writer, msg string, fn func() error) error {
	ch := make(chan error, 1)
	go func() {
		ch <- fn()
	}()

	frame := 0
	fmt.Fprintf(w, "%s %s", progressPrefix.Render(spinnerFrames[frame]), msg)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-ch:
			fmt.Fprintf(w, "\r\033[2K")
			if err != nil {
				fmt.Fprintf(w, "%s %s\n", progressPrefix.Render("›"), msg)
			} else {
				fmt.Fprintf(w, "%s %s\n", successPrefix.Render("✓"), msg)
			}
			return err
		case <-ticker.C:
			frame++
			char := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(w, "\r\033[2K%s %s", progressPrefix.Render(char), msg)
		}
	}
}
