// Package generate orchestrates prompt generation: composing base prompts,
// resolving variants through templates or AI CLI tools, and writing the
// results to tool-specific output paths.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promptforge/forge/internal/aitool"
	"github.com/promptforge/forge/internal/config"
	"github.com/promptforge/forge/internal/naming"
	"github.com/promptforge/forge/internal/prompt"
	"github.com/promptforge/forge/internal/source"
	"github.com/promptforge/forge/internal/variant"
)

// Result reports what a generation run produced. Errors holds per-action
// failures; Warnings holds variant failures, which never fail the run.
type Result struct {
	Files    []string
	Errors   []string
	Warnings []string
}

// OK reports whether every action generated successfully.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// invokeFunc runs an AI CLI tool. Tests swap it out for a stub.
type invokeFunc func(ctx context.Context, tool aitool.Tool, instruction, basePrompt string) (string, error)

// Generator turns configured actions into prompt files.
type Generator struct {
	cfg      *config.Config
	loader   *prompt.Loader
	composer *prompt.Composer
	writer   *Writer
	cache    *variant.Cache

	// Timeout bounds each AI CLI invocation.
	Timeout time.Duration

	selectTool func(name string) (aitool.Tool, error)
	invoke     invokeFunc
}

// New builds a Generator for the project in projectDir. The variant cache
// carries generated variants across runs within one process; pass a fresh
// cache for one-shot CLI use.
func New(projectDir string, cfg *config.Config, cache *variant.Cache) (*Generator, error) {
	convention, err := naming.ForTool(cfg.Generate.Tool)
	if err != nil {
		return nil, err
	}

	src, err := source.Open(cfg.RootLocation(projectDir))
	if err != nil {
		return nil, err
	}

	loader := prompt.NewLoader(src)
	engine := prompt.NewEngine()
	composer := prompt.NewComposer(loader, engine, prompt.Target{
		Tool:    cfg.Generate.Tool,
		Library: cfg.Generate.Library,
	})
	writer := NewWriter(composer, convention, cfg.OutputPath(projectDir), cfg.Generate.Library)

	return &Generator{
		cfg:        cfg,
		loader:     loader,
		composer:   composer,
		writer:     writer,
		cache:      cache,
		Timeout:    aitool.DefaultTimeout,
		selectTool: aitool.Select,
		invoke: func(ctx context.Context, tool aitool.Tool, instruction, basePrompt string) (string, error) {
			return tool.GenerateVariant(ctx, instruction, basePrompt)
		},
	}, nil
}

// Loader exposes the fragment loader, for listing commands and the MCP server.
func (g *Generator) Loader() *prompt.Loader {
	return g.loader
}

// Composer exposes the prompt composer.
func (g *Generator) Composer() *prompt.Composer {
	return g.composer
}

// Cache exposes the session variant cache.
func (g *Generator) Cache() *variant.Cache {
	return g.cache
}

// GenerateAll generates prompts for every action template in the root.
// Action templates named <variant>-<action> for a configured variant are
// outputs of variant saving, not standalone actions, and are skipped.
// personaName overrides the configured persona; exampleNames override
// configured examples.
func (g *Generator) GenerateAll(ctx context.Context, personaName string, exampleNames []string) Result {
	var res Result

	actions, err := g.Actions()
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	if len(actions) == 0 {
		res.Errors = append(res.Errors, "no action templates found; run forge init or add templates under actions/")
		return res
	}

	for _, action := range actions {
		sub := g.GenerateAction(ctx, action, personaName, exampleNames)
		res.Files = append(res.Files, sub.Files...)
		res.Errors = append(res.Errors, sub.Errors...)
		res.Warnings = append(res.Warnings, sub.Warnings...)
	}
	return res
}

// Actions returns the generatable action names, excluding saved variant
// templates for other actions in the root.
func (g *Generator) Actions() ([]string, error) {
	actions, err := g.loader.ListActions()
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	skip := g.variantActionNames(actions)

	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if !skip[a] {
			out = append(out, a)
		}
	}
	return out, nil
}

// GenerateAction generates the prompt for one action, plus any variants its
// prompt block configures.
func (g *Generator) GenerateAction(ctx context.Context, action, personaName string, exampleNames []string) Result {
	var res Result

	pc := g.cfg.PromptFor(action)
	metadata := g.cfg.EffectiveMetadata(pc)

	persona := personaName
	if persona == "" && pc != nil {
		persona = pc.Persona
	}
	if persona == "" {
		var err error
		persona, err = g.defaultPersona()
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", action, err))
			return res
		}
	}

	examples := exampleNames
	if len(examples) == 0 && pc != nil {
		examples = pc.Examples
	}

	path, base, err := g.writer.Write(action, persona, examples, metadata)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", action, err))
		return res
	}
	res.Files = append(res.Files, path)

	if pc == nil {
		return res
	}
	for _, v := range pc.Variants {
		vpath, err := g.generateVariant(ctx, v, action, persona, base, metadata, pc.CLITool)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("variant %s-%s: %v", v, action, err))
			continue
		}
		res.Files = append(res.Files, vpath)
	}
	return res
}

// ResolveVariant returns variant content without writing it. The lookup
// order is: session cache, saved <variant>-<action> action template, AI CLI
// generation (which populates the cache).
func (g *Generator) ResolveVariant(ctx context.Context, variantName, action, persona string, metadata map[string]any, cliTool string) (string, error) {
	return g.resolveVariant(ctx, variantName, action, persona, "", metadata, cliTool)
}

// generateVariant resolves one variant against an already-composed base
// prompt and writes it under the <variant>-<action> name.
func (g *Generator) generateVariant(ctx context.Context, variantName, action, persona, base string, metadata map[string]any, cliTool string) (string, error) {
	content, err := g.resolveVariant(ctx, variantName, action, persona, base, metadata, cliTool)
	if err != nil {
		return "", err
	}
	return g.writer.WriteContent(variantName+"-"+action, content)
}

// resolveVariant implements the lookup order. base is the pre-composed base
// prompt when the caller already has one; empty means compose on demand for
// the AI path.
func (g *Generator) resolveVariant(ctx context.Context, variantName, action, persona, base string, metadata map[string]any, cliTool string) (string, error) {
	if e, ok := g.cache.Lookup(variantName, action, persona, metadata); ok {
		return e.Content, nil
	}

	templated := variantName + "-" + action
	if _, err := g.loader.LoadAction(templated); err == nil {
		return g.composer.Compose(templated, persona, nil, metadata)
	} else if !errors.Is(err, prompt.ErrActionNotFound) {
		return "", err
	}

	if base == "" {
		var err error
		base, err = g.composer.Compose(action, persona, nil, metadata)
		if err != nil {
			return "", err
		}
	}
	return g.aiVariant(ctx, variantName, action, persona, base, metadata, cliTool)
}

// aiVariant renders the variant instruction template and runs it through an
// AI CLI tool, caching the result.
func (g *Generator) aiVariant(ctx context.Context, variantName, action, persona, base string, metadata map[string]any, cliTool string) (string, error) {
	tmpl, err := g.loader.LoadVariantTemplate(variantName)
	if err != nil {
		return "", err
	}
	instruction, err := g.composer.Engine().Render("variant/"+variantName, tmpl, g.composer.VariantContext(variantName, action, persona, metadata))
	if err != nil {
		return "", err
	}

	tool, err := g.selectTool(cliTool)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	content, err := g.invoke(runCtx, tool, instruction, base)
	if err != nil {
		return "", err
	}

	g.cache.Add(variant.Entry{
		Variant:     variantName,
		Action:      action,
		Persona:     persona,
		Content:     content,
		GeneratedAt: time.Now(),
		Metadata:    metadata,
	})
	return content, nil
}

// defaultPersona picks the first persona in the root when neither the flag
// nor a prompt block names one.
func (g *Generator) defaultPersona() (string, error) {
	personas, err := g.loader.ListPersonas()
	if err != nil {
		return "", err
	}
	if len(personas) == 0 {
		return "", errors.New("no personas found; add one under personas/ or pass --persona")
	}
	return personas[0], nil
}

// variantActionNames returns the set of action names that are saved variant
// templates for another action in the list.
func (g *Generator) variantActionNames(actions []string) map[string]bool {
	names := make(map[string]bool, len(actions))
	for _, a := range actions {
		names[a] = true
	}

	skip := make(map[string]bool)
	for _, pc := range g.cfg.Prompts {
		for _, v := range pc.Variants {
			candidate := v + "-" + pc.Action
			if names[candidate] && names[pc.Action] {
				skip[candidate] = true
			}
		}
	}
	return skip
}
