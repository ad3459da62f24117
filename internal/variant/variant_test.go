package variant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/promptforge/forge/internal/prompt"
	"github.com/promptforge/forge/internal/source"
)

func entry(variant, action, persona, content string) Entry {
	return Entry{
		Variant:     variant,
		Action:      action,
		Persona:     persona,
		Content:     content,
		GeneratedAt: time.Now(),
	}
}

func TestCache_AddAndFilter(t *testing.T) {
	c := NewCache()
	c.Add(entry("update", "research", "researcher", "a"))
	c.Add(entry("refine", "research", "researcher", "b"))
	c.Add(entry("update", "review", "writer", "c"))

	if c.Count() != 3 {
		t.Errorf("Count = %d, want 3", c.Count())
	}
	if got := c.ByAction("research"); len(got) != 2 {
		t.Errorf("ByAction(research) = %d entries, want 2", len(got))
	}
	if got := c.ByVariant("update"); len(got) != 2 {
		t.Errorf("ByVariant(update) = %d entries, want 2", len(got))
	}
}

func TestCache_Lookup(t *testing.T) {
	c := NewCache()
	e := entry("update", "research", "researcher", "cached content")
	e.Metadata = map[string]any{"model": "opus"}
	c.Add(e)

	got, ok := c.Lookup("update", "research", "researcher", map[string]any{"model": "opus"})
	if !ok {
		t.Fatal("Lookup missed")
	}
	if got.Content != "cached content" {
		t.Errorf("Content = %q", got.Content)
	}

	if _, ok := c.Lookup("update", "research", "researcher", map[string]any{"model": "haiku"}); ok {
		t.Error("Lookup matched despite different metadata")
	}
	if _, ok := c.Lookup("refine", "research", "researcher", map[string]any{"model": "opus"}); ok {
		t.Error("Lookup matched despite different variant")
	}
}

func TestCache_Lookup_NilAndEmptyMetadataMatch(t *testing.T) {
	c := NewCache()
	c.Add(entry("update", "research", "researcher", "x"))

	if _, ok := c.Lookup("update", "research", "researcher", map[string]any{}); !ok {
		t.Error("empty metadata should match nil metadata")
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache()
	c.Add(entry("update", "research", "researcher", "x"))
	c.Clear()
	if c.Count() != 0 {
		t.Errorf("Count after Clear = %d", c.Count())
	}
}

func TestCache_AllReturnsCopy(t *testing.T) {
	c := NewCache()
	c.Add(entry("update", "research", "researcher", "x"))

	all := c.All()
	all[0].Content = "mutated"

	if got := c.All()[0].Content; got != "x" {
		t.Errorf("cache entry mutated through All: %q", got)
	}
}

func newSaver(t *testing.T) (*Saver, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "personas"), 0755); err != nil {
		t.Fatal(err)
	}
	personaContent := "You are an expert researcher."
	if err := os.WriteFile(filepath.Join(root, "personas", "researcher.md"), []byte(personaContent), 0644); err != nil {
		t.Fatal(err)
	}
	loader := prompt.NewLoader(source.NewDir(root))
	return NewSaver(root, loader), root
}

func TestSaver_Save_ReplacesPersona(t *testing.T) {
	s, root := newSaver(t)

	e := entry("update", "research", "researcher",
		"You are an expert researcher.\n\nUpdate the research prompt.")
	status := s.Save(e, false)
	if !status.Saved {
		t.Fatalf("not saved: %s", status.Reason)
	}

	want := filepath.Join(root, "actions", "update-research.md.tmpl")
	if status.Path != want {
		t.Errorf("Path = %q, want %q", status.Path, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "{{ .persona }}") {
		t.Errorf("persona not templatized:\n%s", data)
	}
	if strings.Contains(string(data), "expert researcher") {
		t.Errorf("literal persona content left in saved template:\n%s", data)
	}
}

func TestSaver_Save_SkipsExistingWithoutForce(t *testing.T) {
	s, root := newSaver(t)
	path := filepath.Join(root, "actions", "update-research.md.tmpl")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	e := entry("update", "research", "researcher", "new content")

	status := s.Save(e, false)
	if status.Saved {
		t.Error("existing file overwritten without force")
	}
	if status.Reason != "file exists" {
		t.Errorf("Reason = %q", status.Reason)
	}

	status = s.Save(e, true)
	if !status.Saved {
		t.Fatalf("force save failed: %s", status.Reason)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new content" {
		t.Errorf("forced content = %q", data)
	}
}

func TestSaver_Save_MissingPersona(t *testing.T) {
	s, _ := newSaver(t)
	status := s.Save(entry("update", "research", "ghost", "content"), false)
	if status.Saved {
		t.Error("saved despite missing persona")
	}
	if !strings.Contains(status.Reason, "persona") {
		t.Errorf("Reason = %q", status.Reason)
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		entry("update", "research", "p", "a"),
		entry("refine", "research", "p", "b"),
		entry("update", "review", "p", "c"),
	}

	if got := Filter(entries, nil, nil); len(got) != 3 {
		t.Errorf("no filters: %d entries, want 3", len(got))
	}
	if got := Filter(entries, []string{"update"}, nil); len(got) != 2 {
		t.Errorf("variant filter: %d entries, want 2", len(got))
	}
	if got := Filter(entries, nil, []string{"review"}); len(got) != 1 {
		t.Errorf("action filter: %d entries, want 1", len(got))
	}
	if got := Filter(entries, []string{"refine"}, []string{"review"}); len(got) != 0 {
		t.Errorf("combined filter: %d entries, want 0", len(got))
	}
	if got := Filter(entries, []string{"update", "refine"}, []string{"research"}); len(got) != 2 {
		t.Errorf("multi-name filter: %d entries, want 2", len(got))
	}
}
