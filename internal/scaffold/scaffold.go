// Package scaffold creates a fresh project layout: the configuration file,
// the template root with starter fragments, and the output directory.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptforge/forge/internal/config"
)

// Starter fragment contents written by Init. They double as working
// documentation of the template syntax.
const (
	starterPersona = `You are a senior software engineer with deep experience in code review,
architecture, and mentoring. You explain your reasoning and prefer small,
verifiable steps.
`

	starterAction = `{{ frontmatter .metadata }}{{ .persona }}

# Task

Review the provided code. Point out correctness issues first, then style.
{{ if .examples }}
# Examples
{{ range .examples }}
{{ . }}
{{ end }}{{ end }}`

	starterExample = `## Example review

The loop on line 12 never terminates when the slice is empty. Guard the
length before indexing.
`

	starterVariant = `Rewrite the base prompt below as a {{ .variant_name }} variant of the
{{ .action_name }} action. Keep the persona and intent, change only the
level of detail. Respond with the rewritten prompt and nothing else.
`
)

// starters maps template root paths to their initial contents.
var starters = map[string]string{
	"personas/engineer.md":     starterPersona,
	"actions/review.md.tmpl":   starterAction,
	"examples/review.md":       starterExample,
	"variants/concise.md.tmpl": starterVariant,
}

// Init creates forge.toml, the template root, and the output directory in
// projectDir. Existing config is refused unless force is set; existing
// fragment files are never overwritten.
func Init(projectDir string, force bool) ([]string, error) {
	cfgPath := filepath.Join(projectDir, config.ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return nil, fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFile)
	}

	cfg := config.Default()
	cfg.Prompts = []config.PromptConfig{{
		Persona:  "engineer",
		Action:   "review",
		Variants: []string{"concise"},
	}}
	if err := cfg.Save(projectDir); err != nil {
		return nil, err
	}
	created := []string{config.ConfigFile}

	root := filepath.Join(projectDir, cfg.Forge.Root)
	for rel, content := range starters {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return created, err
		}
		if _, err := os.Stat(full); err == nil {
			continue
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return created, err
		}
		created = append(created, filepath.Join(cfg.Forge.Root, filepath.FromSlash(rel)))
	}

	outDir := filepath.Join(projectDir, cfg.Generate.OutputDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return created, err
	}
	gitignore := filepath.Join(outDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte("*\n!.gitignore\n"), 0644); err != nil {
			return created, err
		}
		created = append(created, filepath.Join(cfg.Generate.OutputDir, ".gitignore"))
	}

	return created, nil
}
