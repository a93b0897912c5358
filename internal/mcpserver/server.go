// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the post corpus to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sitesearch/internal/catalog"
)

// PostFormatURI identifies the post format resource.
const PostFormatURI = "sitesearch://post-format"

// Server wraps the MCP server with the search tools.
type Server struct {
	mcp     *server.MCPServer
	cat     *catalog.Catalog
	baseURL string
}

// New creates a new MCP server with all tools registered. Relative post URLs
// in results are resolved against baseURL when it is set.
func New(cat *catalog.Catalog, baseURL string) *Server {
	s := &Server{cat: cat, baseURL: baseURL}

	s.mcp = server.NewMCPServer(
		"sitesearch",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Find posts whose title contains the query (case-insensitive substring). "+
			"Returns the match count and the matching titles with their URLs, newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for in post titles")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List every published post (title and URL) in the order the site serves them."),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("get_post_format",
		mcp.WithDescription("Returns the front matter format posts must use to appear in search. "+
			"Read it before writing or fixing a post."),
	), s.getPostFormat)

	// Resource: post format contract.
	s.mcp.AddResource(
		mcp.NewResource(PostFormatURI, "Post Format Contract",
			mcp.WithResourceDescription("Front matter fields the search index reads from a post."),
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
	if query == "" {
		return mcp.NewToolResultError("query must not be empty"), nil
	}
	res := s.cat.Search(query, s.baseURL)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts := s.cat.Posts()
	if len(posts) == 0 {
		return mcp.NewToolResultText("no posts published"), nil
	}
	out, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d posts\n%s", len(posts), out)), nil
}

func (s *Server) getPostFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PostFormatURI,
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}
