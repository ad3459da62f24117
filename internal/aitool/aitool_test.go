package aitool

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// stubPath makes only the given commands appear available.
func stubPath(t *testing.T, commands ...string) {
	t.Helper()
	old := lookPath
	lookPath = func(cmd string) (string, error) {
		for _, c := range commands {
			if c == cmd {
				return "/usr/bin/" + cmd, nil
			}
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = old })
}

func TestByName(t *testing.T) {
	tool, err := ByName("claude")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if tool.Command != "claude" {
		t.Errorf("Command = %q", tool.Command)
	}

	if _, err := ByName("chatgpt-desktop"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestByName_CopilotUsesGh(t *testing.T) {
	tool, err := ByName("copilot")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if tool.Command != "gh" {
		t.Errorf("copilot probes %q, want gh", tool.Command)
	}
}

func TestSelect_Explicit(t *testing.T) {
	stubPath(t, "claude")

	tool, err := Select("claude")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if tool.Name != "claude" {
		t.Errorf("Select = %q", tool.Name)
	}
}

func TestSelect_ExplicitUnavailable(t *testing.T) {
	stubPath(t) // nothing on PATH

	if _, err := Select("claude"); err == nil {
		t.Error("expected error when requested tool is unavailable")
	}
}

func TestSelect_AutoDetectOrder(t *testing.T) {
	stubPath(t, "claude", "gemini")

	tool, err := Select("")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// claude precedes gemini in detection order.
	if tool.Name != "claude" {
		t.Errorf("Select = %q, want claude", tool.Name)
	}
}

func TestSelect_NoneAvailable(t *testing.T) {
	stubPath(t)

	_, err := Select("")
	if !errors.Is(err, ErrNoToolAvailable) {
		t.Errorf("Select error = %v, want ErrNoToolAvailable", err)
	}
	// The error should tell the user what to install.
	if !strings.Contains(err.Error(), "claude") {
		t.Errorf("error %q does not list install candidates", err)
	}
}

func TestGenerateVariant_CapturesStdout(t *testing.T) {
	stubPath(t, "cat")
	tool := Tool{Name: "fake", Command: "cat", Args: []string{"cat"}}

	got, err := tool.GenerateVariant(context.Background(), "Make it shorter.", "The base prompt.")
	if err != nil {
		t.Fatalf("GenerateVariant: %v", err)
	}
	if !strings.Contains(got, "Make it shorter.") || !strings.Contains(got, "The base prompt.") {
		t.Errorf("combined prompt not piped through: %q", got)
	}
	if !strings.Contains(got, "# Base Prompt to Transform") {
		t.Errorf("missing section separator: %q", got)
	}
}

func TestGenerateVariant_Timeout(t *testing.T) {
	stubPath(t, "sleep")
	tool := Tool{Name: "slow", Command: "sleep", Args: []string{"sleep", "5"}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tool.GenerateVariant(ctx, "x", "y")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestGenerateVariant_Failure(t *testing.T) {
	stubPath(t, "sh")
	tool := Tool{Name: "broken", Command: "sh", Args: []string{"sh", "-c", "echo boom >&2; exit 1"}}

	_, err := tool.GenerateVariant(context.Background(), "x", "y")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestGenerateVariant_Unavailable(t *testing.T) {
	stubPath(t)
	tool := Tool{Name: "ghost", Command: "ghost", Args: []string{"ghost"}}

	if _, err := tool.GenerateVariant(context.Background(), "x", "y"); err == nil {
		t.Error("expected error for unavailable tool")
	}
}
