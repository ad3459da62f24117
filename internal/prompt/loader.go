package prompt

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/promptforge/forge/internal/source"
)

// Directory names within the template root.
const (
	personaDir = "personas"
	actionDir  = "actions"
	exampleDir = "examples"
	variantDir = "variants"
)

// templateExts are the extensions probed for templated fragments, in order.
var templateExts = []string{".md.tmpl", ".tmpl.md", ".tmpl"}

// Sentinel errors for missing fragments. The generator relies on
// ErrActionNotFound to decide between template-based and AI-based variant
// generation.
var (
	ErrPersonaNotFound         = errors.New("persona not found")
	ErrActionNotFound          = errors.New("action template not found")
	ErrExampleNotFound         = errors.New("example not found")
	ErrVariantTemplateNotFound = errors.New("variant template not found")
)

// Persona is a named block of persona prose.
type Persona struct {
	Name    string
	Content string
}

// Action is a named action template.
type Action struct {
	Name     string
	Template string
}

// Example is a named example output. Templated examples are rendered with
// the prompt context before inclusion.
type Example struct {
	Name       string
	Content    string
	IsTemplate bool
}

// Loader reads prompt fragments from a Source and caches them for the life
// of the loader. MCP tool handlers share one loader and can run
// concurrently, so the caches are mutex-guarded.
type Loader struct {
	src source.Source

	mu       sync.Mutex
	personas map[string]Persona
	actions  map[string]Action
	examples map[string]Example
	variants map[string]string
}

// NewLoader returns a Loader reading from the given source.
func NewLoader(src source.Source) *Loader {
	return &Loader{
		src:      src,
		personas: make(map[string]Persona),
		actions:  make(map[string]Action),
		examples: make(map[string]Example),
		variants: make(map[string]string),
	}
}

// LoadPersona loads a persona by name.
func (l *Loader) LoadPersona(name string) (Persona, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.personas[name]; ok {
		return p, nil
	}

	path := path.Join(personaDir, name+".md")
	if !l.src.Exists(path) {
		return Persona{}, fmt.Errorf("%w: %s", ErrPersonaNotFound, name)
	}
	content, err := l.src.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Persona{}, fmt.Errorf("persona %s is empty", name)
	}

	p := Persona{Name: name, Content: content}
	l.personas[name] = p
	return p, nil
}

// LoadAction loads an action template by name. Template extensions are
// probed first; a plain .md file also works since rendering literal text is
// a no-op.
func (l *Loader) LoadAction(name string) (Action, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a, ok := l.actions[name]; ok {
		return a, nil
	}

	exts := append(append([]string{}, templateExts...), ".md")
	for _, ext := range exts {
		p := path.Join(actionDir, name+ext)
		if !l.src.Exists(p) {
			continue
		}
		content, err := l.src.ReadFile(p)
		if err != nil {
			return Action{}, err
		}
		a := Action{Name: name, Template: content}
		l.actions[name] = a
		return a, nil
	}
	return Action{}, fmt.Errorf("%w: %s", ErrActionNotFound, name)
}

// LoadExample loads an example by name. Template extensions are probed
// first; a plain .md example is returned as literal content.
func (l *Loader) LoadExample(name string) (Example, error) {
	name = strings.TrimSuffix(name, ".md")

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.examples[name]; ok {
		return e, nil
	}

	for _, ext := range templateExts {
		p := path.Join(exampleDir, name+ext)
		if !l.src.Exists(p) {
			continue
		}
		content, err := l.src.ReadFile(p)
		if err != nil {
			return Example{}, err
		}
		e := Example{Name: name, Content: content, IsTemplate: true}
		l.examples[name] = e
		return e, nil
	}

	p := path.Join(exampleDir, name+".md")
	if l.src.Exists(p) {
		content, err := l.src.ReadFile(p)
		if err != nil {
			return Example{}, err
		}
		e := Example{Name: name, Content: content}
		l.examples[name] = e
		return e, nil
	}

	return Example{}, fmt.Errorf("%w: %s", ErrExampleNotFound, name)
}

// LoadVariantTemplate loads a variant instruction template by name.
func (l *Loader) LoadVariantTemplate(name string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.variants[name]; ok {
		return v, nil
	}

	exts := append(append([]string{}, templateExts...), ".md")
	for _, ext := range exts {
		p := path.Join(variantDir, name+ext)
		if !l.src.Exists(p) {
			continue
		}
		content, err := l.src.ReadFile(p)
		if err != nil {
			return "", err
		}
		l.variants[name] = content
		return content, nil
	}
	return "", fmt.Errorf("%w: %s", ErrVariantTemplateNotFound, name)
}

// ListPersonas returns the available persona names, sorted.
func (l *Loader) ListPersonas() ([]string, error) {
	return l.listNames(personaDir, []string{"*.md"})
}

// ListActions returns the available action names, sorted.
func (l *Loader) ListActions() ([]string, error) {
	return l.listNames(actionDir, []string{"*.md", "*.tmpl", "*.tmpl.md"})
}

// ListExamples returns the available example names, sorted.
func (l *Loader) ListExamples() ([]string, error) {
	return l.listNames(exampleDir, []string{"*.md", "*.tmpl", "*.tmpl.md"})
}

// ListVariantTemplates returns the available variant template names, sorted.
func (l *Loader) ListVariantTemplates() ([]string, error) {
	return l.listNames(variantDir, []string{"*.md", "*.tmpl", "*.tmpl.md"})
}

func (l *Loader) listNames(dir string, patterns []string) ([]string, error) {
	if !l.src.Exists(dir) {
		return nil, nil
	}

	seen := make(map[string]bool)
	for _, pattern := range patterns {
		files, err := l.src.Glob(dir, pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			seen[trimFragmentExt(f)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// trimFragmentExt strips stacked fragment extensions from a file name.
func trimFragmentExt(name string) string {
	for {
		switch {
		case strings.HasSuffix(name, ".tmpl"):
			name = strings.TrimSuffix(name, ".tmpl")
		case strings.HasSuffix(name, ".md"):
			name = strings.TrimSuffix(name, ".md")
		default:
			return name
		}
	}
}
