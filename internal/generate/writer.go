package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptforge/forge/internal/naming"
	"github.com/promptforge/forge/internal/prompt"
)

// Writer composes a single prompt and writes it to its tool-specific
// output path.
type Writer struct {
	composer   *prompt.Composer
	convention naming.Convention
	outputDir  string
	library    string
}

// NewWriter returns a Writer for the given composer and naming convention.
func NewWriter(composer *prompt.Composer, convention naming.Convention, outputDir, library string) *Writer {
	return &Writer{
		composer:   composer,
		convention: convention,
		outputDir:  outputDir,
		library:    library,
	}
}

// Write composes the prompt and writes it, creating directories as needed.
// It returns the output file path and the composed content, which variant
// generation reuses as its base prompt.
func (w *Writer) Write(action, persona string, examples []string, metadata map[string]any) (string, string, error) {
	content, err := w.composer.Compose(action, persona, examples, metadata)
	if err != nil {
		return "", "", err
	}
	path, err := w.WriteContent(action, content)
	if err != nil {
		return "", "", err
	}
	return path, content, nil
}

// WriteContent writes already-rendered content under the action's output
// path. Variant content generated by AI tools goes through here.
func (w *Writer) WriteContent(action, content string) (string, error) {
	path := w.convention.OutputPath(w.outputDir, action, w.library)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
