package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptforge/forge/internal/config"
)

// registerPrompts publishes each configured prompt block as an MCP prompt,
// plus one prompt per variant. Variant prompts resolve through the session
// cache, so a variant generated once is served without another AI call.
func (s *Server) registerPrompts() {
	for i := range s.cfg.Prompts {
		pc := &s.cfg.Prompts[i]

		s.mcp.AddPrompt(mcp.NewPrompt(
			pc.Action,
			mcp.WithPromptDescription(fmt.Sprintf("The %s prompt, composed with the %s persona.", pc.Action, pc.Persona)),
		), s.makePromptHandler(pc))

		for _, v := range pc.Variants {
			s.mcp.AddPrompt(mcp.NewPrompt(
				v+"-"+pc.Action,
				mcp.WithPromptDescription(fmt.Sprintf("The %s variant of the %s prompt.", v, pc.Action)),
			), s.makeVariantPromptHandler(pc, v))
		}
	}
}

func (s *Server) makePromptHandler(pc *config.PromptConfig) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		content, err := s.gen.Composer().Compose(pc.Action, pc.Persona, pc.Examples, s.cfg.EffectiveMetadata(pc))
		if err != nil {
			return nil, err
		}
		return promptResult(pc.Action, content), nil
	}
}

func (s *Server) makeVariantPromptHandler(pc *config.PromptConfig, variantName string) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		content, err := s.gen.ResolveVariant(ctx, variantName, pc.Action, pc.Persona, s.cfg.EffectiveMetadata(pc), pc.CLITool)
		if err != nil {
			return nil, err
		}
		return promptResult(variantName+"-"+pc.Action, content), nil
	}
}

func promptResult(name, content string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(
		name,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(content)),
		},
	)
}
