package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptforge/forge/internal/variant"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool(
		"list_personas",
		mcp.WithDescription("List the persona names available in the template root."),
	), s.handleListPersonas)

	s.mcp.AddTool(mcp.NewTool(
		"list_actions",
		mcp.WithDescription("List the action template names available in the template root."),
	), s.handleListActions)

	s.mcp.AddTool(mcp.NewTool(
		"list_examples",
		mcp.WithDescription("List the example names available in the template root."),
	), s.handleListExamples)

	s.mcp.AddTool(mcp.NewTool(
		"generate_prompt",
		mcp.WithDescription("Compose a prompt from an action template and a persona. Returns the full prompt text without writing files."),
		mcp.WithString("action",
			mcp.Description("Action template name"),
			mcp.Required(),
		),
		mcp.WithString("persona",
			mcp.Description("Persona name (defaults to the configured or first persona)"),
		),
		mcp.WithArray("examples",
			mcp.Description("Example names to include"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleGeneratePrompt)

	s.mcp.AddTool(mcp.NewTool(
		"generate_variants",
		mcp.WithDescription("Generate variants of an action's prompt. Saved variant templates render directly; others go through the configured AI CLI tool and are cached for the session."),
		mcp.WithString("action",
			mcp.Description("Action template name"),
			mcp.Required(),
		),
		mcp.WithArray("variants",
			mcp.Description("Variant names (defaults to the variants configured for the action)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("persona",
			mcp.Description("Persona name (defaults to the configured or first persona)"),
		),
	), s.handleGenerateVariants)

	s.mcp.AddTool(mcp.NewTool(
		"save_variants",
		mcp.WithDescription("Persist session-cached variants as reusable action templates in the template root."),
		mcp.WithArray("variants",
			mcp.Description("Only save these variant names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("actions",
			mcp.Description("Only save variants of these actions"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("force",
			mcp.Description("Overwrite existing templates"),
		),
	), s.handleSaveVariants)
}

func (s *Server) handleListPersonas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.listResult("personas", s.gen.Loader().ListPersonas, func(name string) string {
		p, err := s.gen.Loader().LoadPersona(name)
		if err != nil {
			return ""
		}
		return p.Content
	})
}

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.listResult("actions", s.gen.Loader().ListActions, func(name string) string {
		a, err := s.gen.Loader().LoadAction(name)
		if err != nil {
			return ""
		}
		return a.Template
	})
}

func (s *Server) handleListExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.listResult("examples", s.gen.Loader().ListExamples, func(name string) string {
		e, err := s.gen.Loader().LoadExample(name)
		if err != nil {
			return ""
		}
		return e.Content
	})
}

// listResult formats one "name: preview" line per entry.
func (s *Server) listResult(kind string, list func() ([]string, error), content func(string) string) (*mcp.CallToolResult, error) {
	names, err := list()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing %s: %v", kind, err)), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s found.", kind)), nil
	}

	var b strings.Builder
	for _, name := range names {
		if c := content(name); c != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, preview(c))
		} else {
			fmt.Fprintf(&b, "%s\n", name)
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (s *Server) handleGeneratePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: action"), nil
	}

	persona := request.GetString("persona", "")
	persona, err = s.resolvePersona(action, persona)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	examples := stringSlice(request, "examples")
	pc := s.cfg.PromptFor(action)
	if len(examples) == 0 && pc != nil {
		examples = pc.Examples
	}

	content, err := s.gen.Composer().Compose(action, persona, examples, s.cfg.EffectiveMetadata(pc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleGenerateVariants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: action"), nil
	}

	pc := s.cfg.PromptFor(action)
	variants := stringSlice(request, "variants")
	if len(variants) == 0 && pc != nil {
		variants = pc.Variants
	}
	if len(variants) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no variants requested and none configured for action %q", action)), nil
	}

	persona := request.GetString("persona", "")
	persona, err = s.resolvePersona(action, persona)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cliTool string
	if pc != nil {
		cliTool = pc.CLITool
	}
	metadata := s.cfg.EffectiveMetadata(pc)

	var b strings.Builder
	failed := 0
	for _, v := range variants {
		content, err := s.gen.ResolveVariant(ctx, v, action, persona, metadata, cliTool)
		if err != nil {
			failed++
			fmt.Fprintf(&b, "%s-%s: FAILED: %v\n", v, action, err)
			continue
		}
		fmt.Fprintf(&b, "%s-%s: %s\n", v, action, preview(content))
	}

	if failed == len(variants) {
		return mcp.NewToolResultError(b.String()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleSaveVariants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.saver == nil {
		return mcp.NewToolResultError("cannot save variants: the template root is remote"), nil
	}

	entries := variant.Filter(s.gen.Cache().All(), stringSlice(request, "variants"), stringSlice(request, "actions"))
	if len(entries) == 0 {
		return mcp.NewToolResultText("No cached variants match. Generate variants first."), nil
	}

	statuses := s.saver.SaveAll(entries, request.GetBool("force", false))

	var b strings.Builder
	for _, st := range statuses {
		if st.Saved {
			fmt.Fprintf(&b, "saved %s\n", st.Path)
		} else {
			fmt.Fprintf(&b, "skipped %s: %s\n", st.Path, st.Reason)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// resolvePersona applies the persona fallback chain: explicit argument,
// configured prompt block, first persona in the root.
func (s *Server) resolvePersona(action, persona string) (string, error) {
	if persona != "" {
		return persona, nil
	}
	if pc := s.cfg.PromptFor(action); pc != nil {
		return pc.Persona, nil
	}
	personas, err := s.gen.Loader().ListPersonas()
	if err != nil {
		return "", err
	}
	if len(personas) == 0 {
		return "", fmt.Errorf("no personas found in the template root")
	}
	return personas[0], nil
}

func stringSlice(request mcp.CallToolRequest, key string) []string {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
