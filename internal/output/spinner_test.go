package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLineSpinner_AllResolvedBeforeRun(t *testing.T) {
	spinner := NewLineSpinner(2)
	spinner.SetLine(0, "line-a %s")
	spinner.SetLine(1, "line-b %s")
	spinner.Resolve(0, "OK")
	spinner.Resolve(1, "OK")

	var buf bytes.Buffer
	spinner.w = &buf
	spinner.Run()

	out := buf.String()
	if !strings.Contains(out, "line-a OK") {
		t.Errorf("expected line-a with OK, got: %s", out)
	}
	if !strings.Contains(out, "line-b OK") {
		t.Errorf("expected line-b with OK, got: %s", out)
	}
}

func TestLineSpinner_ResolvesDuringRun(t *testing.T) {
	spinner := NewLineSpinner(2)
	spinner.SetLine(0, "first %s")
	spinner.SetLine(1, "second %s")

	var buf bytes.Buffer
	spinner.w = &buf

	go func() {
		spinner.Resolve(0, "done0")
		spinner.Resolve(1, "done1")
	}()

	spinner.Run()

	out := buf.String()
	if !strings.Contains(out, "first done0") {
		t.Errorf("expected resolved line 0, got: %s", out)
	}
	if !strings.Contains(out, "second done1") {
		t.Errorf("expected resolved line 1, got: %s", out)
	}
}

func TestLineSpinner_CursorSaveRestore(t *testing.T) {
	spinner := NewLineSpinner(2)
	spinner.SetLine(0, "line-a %s")
	spinner.SetLine(1, "line-b %s")
	spinner.Resolve(0, "OK")
	spinner.Resolve(1, "OK")

	var buf bytes.Buffer
	spinner.w = &buf
	spinner.Run()

	out := buf.String()
	if !strings.Contains(out, "\033[?25l\0337") {
		t.Errorf("expected cursor hide + save at start, got: %q", out)
	}
	if !strings.Contains(out, "\0338\033[J") {
		t.Errorf("expected cursor restore + clear in redraw, got: %q", out)
	}
	if !strings.HasSuffix(out, "\033[?25h") {
		t.Errorf("expected cursor show at end, got: %q", out)
	}
}

func TestLineSpinner_ZeroLines(t *testing.T) {
	spinner := NewLineSpinner(0)

	var buf bytes.Buffer
	spinner.w = &buf

	// Run should return immediately without blocking.
	spinner.Run()

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero lines, got: %q", buf.String())
	}
}

func TestLineSpinner_StopBeforeAllResolved(t *testing.T) {
	spinner := NewLineSpinner(2)
	spinner.SetLine(0, "a %s")
	spinner.SetLine(1, "b %s")
	spinner.Resolve(0, "ok")

	var buf bytes.Buffer
	spinner.w = &buf

	done := make(chan struct{})
	go func() {
		spinner.Run()
		close(done)
	}()

	spinner.Stop()
	<-done

	out := buf.String()
	if !strings.HasSuffix(out, "\033[?25h") {
		t.Errorf("expected cursor show after Stop(), got: %q", out)
	}
	if !strings.Contains(out, "a ok") {
		t.Errorf("expected resolved line a, got: %q", out)
	}
}

func TestLineSpinner_StopIdempotent(t *testing.T) {
	spinner := NewLineSpinner(1)
	spinner.SetLine(0, "x %s")
	spinner.Resolve(0, "done")

	var buf bytes.Buffer
	spinner.w = &buf
	spinner.Run()

	spinner.Stop()
	spinner.Stop()
}

func TestSpin_Success(t *testing.T) {
	var buf bytes.Buffer
	err := spinTo(&buf, "Doing work", func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Doing work") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "✓") {
		t.Errorf("expected success marker in output, got: %s", out)
	}
}

func TestSpin_Error(t *testing.T) {
	var buf bytes.Buffer
	testErr := errors.New("something broke")
	err := spinTo(&buf, "Failing task", func() error {
		return testErr
	})
	if !errors.Is(err, testErr) {
		t.Fatalf("expected testErr, got: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Failing task") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if strings.Contains(out, "✓") {
		t.Errorf("should not contain success marker on error, got: %s", out)
	}
}
