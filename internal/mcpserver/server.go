// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Weave tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/weavehq/weave/internal/cache"
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/pipeline"
	"github.com/weavehq/weave/internal/storage"
)

// Server wraps the MCP server with Weave tools.
type Server struct {
	mcp       *server.MCPServer
	store     storage.Provider
	db        index.PostIndex
	artifacts cache.Store
	pipe      *pipeline.Service
}

// New creates a new MCP server with all Weave tools registered.
func New(store storage.Provider, db index.PostIndex, artifacts cache.Store, pipe *pipeline.Service) *Server {
	s := &Server{store: store, db: db, artifacts: artifacts, pipe: pipe}

	s.mcp = server.NewMCPServer(
		"Weave",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Full-text search through post bodies, titles, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read the raw Markdown source of a post."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the source file (e.g. guides/intro.md)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("get_post_html",
		mcp.WithDescription("Get the processed, styled HTML of a post by slug."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug as shown by list_posts")),
	), s.getPostHTML)

	s.mcp.AddTool(mcp.NewTool("render_markdown",
		mcp.WithDescription("Convert Markdown content to styled HTML without persisting anything. "+
			"Content SHOULD follow the canonical post format (metadata header with title, "+
			"optional slug, description, tags). Read the contract first via the "+
			"get_post_contract tool or the weave://post-format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content to render")),
	), s.renderMarkdown)

	s.mcp.AddTool(mcp.NewTool("process_post",
		mcp.WithDescription("Run a source Markdown file through the processing pipeline. "+
			"Skips unchanged files unless force is \"true\"."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the source file")),
		mcp.WithString("force", mcp.Description("Set to \"true\" to reprocess even when unchanged")),
	), s.processPost)

	s.mcp.AddTool(mcp.NewTool("get_post_contract",
		mcp.WithDescription("Returns the canonical Weave post format contract. "+
			"Call this before writing post sources to ensure correct structure."),
	), s.getPostContract)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List indexed posts with slugs, titles, and tags."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by (empty for all)")),
	), s.listPosts)

	// Resource: post format contract.
	s.mcp.AddResource(
		mcp.NewResource("weave://post-format", "Post Format Contract",
			mcp.WithResourceDescription("Canonical Markdown post format that all sources must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getPostHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	art, err := s.artifacts.Load(slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	return mcp.NewToolResultText(art.HTML), nil
}

func (s *Server) renderMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, html := s.pipe.Render(content)
	return mcp.NewToolResultText(html), nil
}

func (s *Server) processPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	force := false
	if f, fErr := req.RequireString("force"); fErr == nil {
		force = f == "true"
	}

	res, err := s.pipe.ProcessFile(ctx, path, force)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}

	rows, _, err := s.db.ListPosts(0, 0, tag, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, row := range rows {
		line := row.Slug + "\t" + row.Title
		if len(row.Tags) > 0 {
			line += "\t[" + strings.Join(row.Tags, ", ") + "]"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no posts indexed"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getPostContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "weave://post-format",
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}
