package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tesh254/axmd/internal/api"
	"github.com/tesh254/axmd/internal/storage"
)

type Core struct {
	api *api.API
}

func New(internalAPI *api.API) *Core {
	return &Core{api: internalAPI}
}

type RenderAXTreeArgs struct {
	AXTree string `json:"axtree" jsonschema:"required"`
}

type CapturePageArgs struct {
	URL      string `json:"url" jsonschema:"required"`
	Store    bool   `json:"store,omitempty"`
	HTMLOnly bool   `json:"html_only,omitempty"`
	Cleanup  bool   `json:"cleanup,omitempty"`
}

type GetPageArgs struct {
	URL string `json:"url" jsonschema:"required"`
}

type ListPagesArgs struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type DeletePagesArgs struct {
	URLPrefix string `json:"url_prefix" jsonschema:"required"`
}

// PageSummary is a stored page without its Markdown body.
type PageSummary struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Source      storage.Source `json:"source"`
	Checksum    string         `json:"checksum"`
	FetchedAt   time.Time      `json:"fetched_at"`
	Length      int            `json:"length"`
}

func summarize(p *storage.Page) PageSummary {
	return PageSummary{
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		Source:      p.Source,
		Checksum:    p.Checksum,
		FetchedAt:   p.FetchedAt,
		Length:      len(p.Markdown),
	}
}

// StartServer serves MCP over stdio, or over HTTP when transport is "http".
func (c *Core) StartServer(ctx context.Context, transport, httpAddress string) error {
	server := c.NewMCPServer()

	switch transport {
	case "http":
		return c.ServeHTTP(ctx, server, httpAddress)
	case "stdio", "":
		return c.ServeStdio(ctx, server)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}
}

// ServeHTTP serves the REST routes and the MCP streamable handler on
// httpAddress until ctx is done.
func (c *Core) ServeHTTP(ctx context.Context, server *mcp.Server, httpAddress string) error {
	srv := &http.Server{
		Addr:              httpAddress,
		Handler:           NewRouter(c.api, server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] axmd HTTP handler listening at %s", httpAddress)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (c *Core) ServeStdio(ctx context.Context, server *mcp.Server) error {
	transport := &mcp.StdioTransport{}
	t := &mcp.LoggingTransport{Transport: transport, Writer: os.Stderr}
	log.Printf("[INFO] Starting axmd MCP server with stdio transport")
	return server.Run(ctx, t)
}

// NewMCPServer builds an MCP server exposing the page tools.
func (c *Core) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "axmd MCP Server", Version: "v1.0.0"}, nil)
	c.registerTools(server)
	return server
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return textResult(string(result)), nil
}

func (c *Core) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_axtree",
		Description: "Render a Chrome accessibility tree ({\"nodes\": [...]} JSON) as Markdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RenderAXTreeArgs) (*mcp.CallToolResult, any, error) {
		md, err := c.api.Convert([]byte(args.AXTree))
		if err != nil {
			return nil, nil, err
		}
		return textResult(md), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "capture_page",
		Description: "Open a URL in a browser and return its accessibility tree rendered as Markdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CapturePageArgs) (*mcp.CallToolResult, any, error) {
		res, err := c.api.CapturePage(ctx, args.URL, api.CaptureOptions{
			HTMLOnly: args.HTMLOnly,
			Cleanup:  args.Cleanup,
			Store:    args.Store,
		})
		if err != nil {
			return nil, nil, err
		}
		r, err := jsonResult(res.Page)
		return r, nil, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_page",
		Description: "Get a stored page by URL.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetPageArgs) (*mcp.CallToolResult, any, error) {
		page, err := c.api.GetPage(args.URL)
		if err != nil {
			return nil, nil, err
		}
		r, err := jsonResult(page)
		return r, nil, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List stored pages with pagination.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPagesArgs) (*mcp.CallToolResult, any, error) {
		pages, total, err := c.api.ListPages(args.Limit, args.Offset)
		if err != nil {
			return nil, nil, err
		}
		summaries := make([]PageSummary, 0, len(pages))
		for _, p := range pages {
			summaries = append(summaries, summarize(p))
		}
		r, err := jsonResult(map[string]any{"pages": summaries, "total": total})
		return r, nil, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_pages",
		Description: "Delete stored pages by URL prefix.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DeletePagesArgs) (*mcp.CallToolResult, any, error) {
		n, err := c.api.DeletePages(args.URLPrefix)
		if err != nil {
			return nil, nil, err
		}
		return textResult(fmt.Sprintf("Deleted %d pages", n)), nil, nil
	})
}
