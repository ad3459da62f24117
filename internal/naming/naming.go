// Package naming maps action names to output file paths for each supported
// export tool.
package naming

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Convention generates output file names for a specific export tool.
type Convention interface {
	// Name is the tool identifier used in configuration.
	Name() string
	// Description is a short human-readable summary of the format.
	Description() string
	// Filename returns the output file name for an action.
	Filename(action, library string) string
	// OutputPath returns the full output path below outputDir.
	OutputPath(outputDir, action, library string) string
}

var registry = map[string]Convention{}

func register(c Convention) {
	registry[c.Name()] = c
}

func init() {
	register(standard{})
	register(copilot{})
	register(claudeCode{})
}

// ForTool returns the convention registered for the given tool name.
func ForTool(tool string) (Convention, error) {
	c, ok := registry[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q (available: %s)", tool, strings.Join(Tools(), ", "))
	}
	return c, nil
}

// Tools returns the registered tool names, sorted.
func Tools() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// standard writes <action>.prompt.md in a flat directory.
type standard struct{}

func (standard) Name() string        { return "standard" }
func (standard) Description() string { return "Standard format (.prompt.md)" }

func (standard) Filename(action, library string) string {
	return action + ".prompt.md"
}

func (s standard) OutputPath(outputDir, action, library string) string {
	return filepath.Join(outputDir, s.Filename(action, library))
}

// copilot writes <library>.<action>.prompt.md flat, so bundled prompt
// libraries stay distinguishable in a single directory.
type copilot struct{}

func (copilot) Name() string        { return "copilot" }
func (copilot) Description() string { return "GitHub Copilot format (.prompt.md, library prefix)" }

func (copilot) Filename(action, library string) string {
	if library != "" {
		return library + "." + action + ".prompt.md"
	}
	return action + ".prompt.md"
}

func (c copilot) OutputPath(outputDir, action, library string) string {
	return filepath.Join(outputDir, c.Filename(action, library))
}

// claudeCode writes <action>.md, nested in a <library>/ subdirectory when a
// library is configured.
type claudeCode struct{}

func (claudeCode) Name() string        { return "claude-code" }
func (claudeCode) Description() string { return "Claude Code format (.md, library subdirectory)" }

func (claudeCode) Filename(action, library string) string {
	return action + ".md"
}

func (c claudeCode) OutputPath(outputDir, action, library string) string {
	if library != "" {
		return filepath.Join(outputDir, library, c.Filename(action, library))
	}
	return filepath.Join(outputDir, c.Filename(action, library))
}
