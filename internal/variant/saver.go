package variant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptforge/forge/internal/prompt"
)

// SaveStatus reports the outcome of persisting one cached variant.
type SaveStatus struct {
	Path   string
	Saved  bool
	Reason string // why the entry was skipped or failed; empty on success
}

// Saver persists cached variants as action templates so future runs render
// them without an AI round-trip. The persona content is swapped back to the
// {{ .persona }} placeholder to keep the saved file reusable.
type Saver struct {
	rootDir string
	loader  *prompt.Loader
}

// NewSaver returns a Saver writing into the given local template root.
func NewSaver(rootDir string, loader *prompt.Loader) *Saver {
	return &Saver{rootDir: rootDir, loader: loader}
}

// TemplatePath returns where a variant of an action is saved.
func (s *Saver) TemplatePath(variant, action string) string {
	return filepath.Join(s.rootDir, "actions", variant+"-"+action+".md.tmpl")
}

// Save writes one cached variant as an action template. Existing files are
// skipped unless force is set.
func (s *Saver) Save(e Entry, force bool) SaveStatus {
	path := s.TemplatePath(e.Variant, e.Action)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return SaveStatus{Path: path, Reason: "file exists"}
		}
	}

	persona, err := s.loader.LoadPersona(e.Persona)
	if err != nil {
		return SaveStatus{Path: path, Reason: fmt.Sprintf("loading persona: %v", err)}
	}
	content := templatize(e.Content, persona.Content)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return SaveStatus{Path: path, Reason: fmt.Sprintf("creating directory: %v", err)}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return SaveStatus{Path: path, Reason: fmt.Sprintf("writing file: %v", err)}
	}
	return SaveStatus{Path: path, Saved: true}
}

// SaveAll persists the given entries in order and returns one status each.
func (s *Saver) SaveAll(entries []Entry, force bool) []SaveStatus {
	statuses := make([]SaveStatus, 0, len(entries))
	for _, e := range entries {
		statuses = append(statuses, s.Save(e, force))
	}
	return statuses
}

// Filter selects cached entries by variant and action names. Empty filters
// match everything.
func Filter(entries []Entry, variants, actions []string) []Entry {
	match := func(names []string, name string) bool {
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}

	var out []Entry
	for _, e := range entries {
		if match(variants, e.Variant) && match(actions, e.Action) {
			out = append(out, e)
		}
	}
	return out
}

// templatize swaps literal persona content for the template placeholder.
// Content that never embedded the persona is saved as-is.
func templatize(content, personaContent string) string {
	trimmed := strings.TrimSpace(personaContent)
	if trimmed != "" && strings.Contains(content, trimmed) {
		return strings.ReplaceAll(content, trimmed, "{{ .persona }}")
	}
	return content
}
