package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := buildRootCmd()
	for _, name := range []string{"init", "generate", "list", "save", "mcp", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	old := version
	version = "v9.9.9-test"
	defer func() { version = old }()

	var buf bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := buf.String(); got != "forge version v9.9.9-test\n" {
		t.Errorf("output = %q", got)
	}
}

func TestInitCmd_CreatesProject(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := initCmd()
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := os.Stat("forge.toml"); err != nil {
		t.Errorf("forge.toml missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join("forge", "actions", "review.md.tmpl")); err != nil {
		t.Errorf("starter action missing: %v", err)
	}
}

func TestInitCmd_RefusesSecondRun(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := initCmd().Execute(); err != nil {
		t.Fatalf("first init: %v", err)
	}

	cmd := initCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when forge.toml already exists")
	}
}

func TestGenerateCmd_WritesPrompts(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join("forge", "personas", "engineer.md"), "An engineer.")
	writeFile(t, filepath.Join("forge", "actions", "review.md.tmpl"), "{{ .persona }}\nReview.")

	cmd := generateCmd()
	cmd.SetArgs([]string{"review"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("prompts", "review.prompt.md"))
	if err != nil {
		t.Fatalf("reading generated prompt: %v", err)
	}
	if string(data) == "" {
		t.Error("generated prompt is empty")
	}
}

func TestGenerateCmd_ToolOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join("forge", "personas", "engineer.md"), "An engineer.")
	writeFile(t, filepath.Join("forge", "actions", "review.md.tmpl"), "Body.")

	cmd := generateCmd()
	cmd.SetArgs([]string{"review", "--tool", "claude-code", "--library", "mylib"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := os.Stat(filepath.Join("prompts", "mylib", "review.md")); err != nil {
		t.Errorf("claude-code layout missing: %v", err)
	}
}

func TestSaveCmd_NoConfiguredVariants(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join("forge", "personas", "engineer.md"), "An engineer.")
	writeFile(t, filepath.Join("forge", "actions", "review.md.tmpl"), "Body.")

	cmd := saveCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no variants are configured")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
