// Package aitool invokes external AI command-line assistants to transform
// prompts. Each invocation is a single blocking subprocess: the prompt is
// piped on stdin and the generated text is read from stdout.
package aitool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 60 * time.Second

// ErrNoToolAvailable is returned when no supported assistant is on PATH.
var ErrNoToolAvailable = errors.New("no AI CLI tool available")

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// Tool describes one external AI assistant.
type Tool struct {
	// Name is the identifier used in configuration (e.g. "claude").
	Name string
	// Command is the binary probed on PATH for availability.
	Command string
	// Args is the full argv for a one-shot invocation reading stdin.
	Args []string
}

// Known lists the supported assistants in auto-detection order.
var Known = []Tool{
	{Name: "codex", Command: "codex", Args: []string{"codex", "exec"}},
	{Name: "copilot", Command: "gh", Args: []string{"gh", "copilot", "suggest", "-t", "shell"}},
	{Name: "claude", Command: "claude", Args: []string{"claude", "-p"}},
	{Name: "gemini", Command: "gemini", Args: []string{"gemini"}},
}

// Available reports whether the tool's command is on PATH.
func (t Tool) Available() bool {
	_, err := lookPath(t.Command)
	return err == nil
}

// GenerateVariant pipes the variant instruction and base prompt to the tool
// and returns its trimmed stdout. The context bounds the subprocess.
func (t Tool) GenerateVariant(ctx context.Context, instruction, basePrompt string) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("%s is not available on PATH", t.Name)
	}

	combined := instruction + "\n\n# Base Prompt to Transform\n\n" + basePrompt

	cmd := exec.CommandContext(ctx, t.Args[0], t.Args[1:]...)
	cmd.Stdin = strings.NewReader(combined)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out", t.Name)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s failed: %s", t.Name, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ByName returns the known tool with the given name.
func ByName(name string) (Tool, error) {
	for _, t := range Known {
		if t.Name == name {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("unknown AI CLI tool %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the known tool names in detection order.
func Names() []string {
	names := make([]string, 0, len(Known))
	for _, t := range Known {
		names = append(names, t.Name)
	}
	return names
}

// Detect returns the tools currently available on PATH, in detection order.
func Detect() []Tool {
	var available []Tool
	for _, t := range Known {
		if t.Available() {
			available = append(available, t)
		}
	}
	return available
}

// Select picks the tool to use for variant generation. An empty name
// auto-detects the first available tool; a non-empty name must refer to a
// known, available tool.
func Select(name string) (Tool, error) {
	if name != "" {
		t, err := ByName(name)
		if err != nil {
			return Tool{}, err
		}
		if !t.Available() {
			return Tool{}, fmt.Errorf("AI CLI tool %q is not available on PATH", name)
		}
		return t, nil
	}

	available := Detect()
	if len(available) == 0 {
		return Tool{}, fmt.Errorf("%w (install one of: %s)", ErrNoToolAvailable, strings.Join(Names(), ", "))
	}
	return available[0], nil
}
