// Package mcpserver exposes prompt generation over the Model Context
// Protocol. Tools cover listing, generation, and variant saving; every
// configured prompt and variant is also published as an MCP prompt.
package mcpserver

import (
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/promptforge/forge/internal/config"
	"github.com/promptforge/forge/internal/generate"
	"github.com/promptforge/forge/internal/variant"
)

// Server wraps an MCP server around a generator. Variants generated during
// the session stay in the generator's cache, so repeated prompt requests
// don't re-invoke AI tools.
type Server struct {
	projectDir string
	cfg        *config.Config
	gen        *generate.Generator
	saver      *variant.Saver
	mcp        *server.MCPServer
}

// New builds the MCP server for the project in projectDir.
func New(projectDir string, cfg *config.Config, version string) (*Server, error) {
	gen, err := generate.New(projectDir, cfg, variant.NewCache())
	if err != nil {
		return nil, err
	}

	s := &Server{
		projectDir: projectDir,
		cfg:        cfg,
		gen:        gen,
		mcp: server.NewMCPServer(
			"forge",
			version,
			server.WithToolCapabilities(false),
			server.WithPromptCapabilities(false),
		),
	}

	// Saving variants writes into the template root, which only works for
	// local roots.
	if root := cfg.RootLocation(projectDir); !strings.HasPrefix(root, "github://") {
		s.saver = variant.NewSaver(root, gen.Loader())
	}

	s.registerTools()
	s.registerPrompts()
	return s, nil
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// preview shortens content for tool result summaries.
func preview(content string) string {
	const max = 200
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
