package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/promptforge/forge/internal/aitool"
	"github.com/promptforge/forge/internal/prompt"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "forge.toml"

// Defaults applied when the config file omits a value.
const (
	DefaultRoot      = "forge"
	DefaultTool      = "standard"
	DefaultOutputDir = "prompts"
)

// Config is the full project configuration.
type Config struct {
	Forge    ForgeConfig    `toml:"forge"`
	Generate GenerateConfig `toml:"generate"`
	Prompts  []PromptConfig `toml:"prompt,omitempty"`
}

// ForgeConfig locates the template root. Root is a directory path relative
// to the project, or a github:// URL for a remote template library.
type ForgeConfig struct {
	Root string `toml:"root"`
}

// GenerateConfig controls prompt output.
type GenerateConfig struct {
	Tool      string         `toml:"tool"`
	Library   string         `toml:"library,omitempty"`
	OutputDir string         `toml:"output_dir"`
	Metadata  map[string]any `toml:"metadata,omitempty"`
}

// PromptConfig configures one prompt and its variants.
type PromptConfig struct {
	Persona  string         `toml:"persona"`
	Action   string         `toml:"action"`
	Variants []string       `toml:"variants,omitempty"`
	Examples []string       `toml:"examples,omitempty"`
	CLITool  string         `toml:"cli_tool,omitempty"`
	Metadata map[string]any `toml:"metadata,omitempty"`
}

// Default returns the configuration used when no forge.toml exists.
func Default() *Config {
	return &Config{
		Forge: ForgeConfig{Root: DefaultRoot},
		Generate: GenerateConfig{
			Tool:      DefaultTool,
			OutputDir: DefaultOutputDir,
		},
	}
}

// Load reads forge.toml from the project directory. A missing file yields
// the default configuration.
func Load(projectDir string) (*Config, error) {
	path := filepath.Join(projectDir, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return &cfg, nil
}

// Save writes the configuration to forge.toml in the project directory.
func (c *Config) Save(projectDir string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(filepath.Join(projectDir, ConfigFile), buf.Bytes(), 0644)
}

func (c *Config) applyDefaults() {
	if c.Forge.Root == "" {
		c.Forge.Root = DefaultRoot
	}
	if c.Generate.Tool == "" {
		c.Generate.Tool = DefaultTool
	}
	if c.Generate.OutputDir == "" {
		c.Generate.OutputDir = DefaultOutputDir
	}
}

func (c *Config) validate() error {
	if c.Generate.Library != "" {
		if err := prompt.ValidateName(c.Generate.Library, "generate.library"); err != nil {
			return err
		}
	}
	for i := range c.Prompts {
		p := &c.Prompts[i]
		if err := prompt.ValidateName(p.Persona, "prompt.persona"); err != nil {
			return err
		}
		if err := prompt.ValidateName(p.Action, "prompt.action"); err != nil {
			return err
		}
		if len(p.Variants) == 0 {
			return fmt.Errorf("prompt %q has no variants; drop the block or list at least one", p.Action)
		}
		for _, v := range p.Variants {
			if err := prompt.ValidateName(v, "prompt.variants entry"); err != nil {
				return err
			}
		}
		for _, e := range p.Examples {
			// The loader tolerates a trailing .md on example names.
			if err := prompt.ValidateName(strings.TrimSuffix(e, ".md"), "prompt.examples entry"); err != nil {
				return err
			}
		}
		if p.CLITool != "" {
			if _, err := aitool.ByName(p.CLITool); err != nil {
				return fmt.Errorf("prompt %q: %w", p.Action, err)
			}
		}
	}
	return nil
}

// MergeOverrides returns a copy with non-empty CLI flag values applied over
// the generate section. Prompt blocks are never touched by overrides.
func (c *Config) MergeOverrides(tool, library, outputDir string) *Config {
	merged := *c
	if tool != "" {
		merged.Generate.Tool = tool
	}
	if library != "" {
		merged.Generate.Library = library
	}
	if outputDir != "" {
		merged.Generate.OutputDir = outputDir
	}
	return &merged
}

// RootLocation resolves the template root. github:// locations pass through
// untouched; directory paths resolve relative to the project.
func (c *Config) RootLocation(projectDir string) string {
	if strings.HasPrefix(c.Forge.Root, "github://") {
		return c.Forge.Root
	}
	if filepath.IsAbs(c.Forge.Root) {
		return c.Forge.Root
	}
	return filepath.Join(projectDir, c.Forge.Root)
}

// OutputPath resolves the output directory relative to the project.
func (c *Config) OutputPath(projectDir string) string {
	if filepath.IsAbs(c.Generate.OutputDir) {
		return c.Generate.OutputDir
	}
	return filepath.Join(projectDir, c.Generate.OutputDir)
}

// PromptFor returns the prompt block configured for the given action, or nil.
func (c *Config) PromptFor(action string) *PromptConfig {
	for i := range c.Prompts {
		if c.Prompts[i].Action == action {
			return &c.Prompts[i]
		}
	}
	return nil
}

// EffectiveMetadata merges the global generate metadata with a prompt's own,
// prompt keys winning. Both inputs are left unmodified.
func (c *Config) EffectiveMetadata(p *PromptConfig) map[string]any {
	merged := make(map[string]any, len(c.Generate.Metadata))
	for k, v := range c.Generate.Metadata {
		merged[k] = v
	}
	if p != nil {
		for k, v := range p.Metadata {
			merged[k] = v
		}
	}
	return merged
}
