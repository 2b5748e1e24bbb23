// Package api ties page capture, rendering, cleanup and storage together
// for the CLI and the servers.
package api

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tesh254/axmd/internal/axtree"
	"github.com/tesh254/axmd/internal/cleanup"
	"github.com/tesh254/axmd/internal/markdown"
	"github.com/tesh254/axmd/internal/scraper"
	"github.com/tesh254/axmd/internal/storage"
)

// Capturer renders a URL in a browser. *scraper.Scraper satisfies it.
type Capturer interface {
	Capture(ctx context.Context) (*scraper.Capture, error)
	FetchHTML(ctx context.Context) (string, error)
}

// API provides page conversion on top of the page store.
type API struct {
	storage *storage.Storage
	cleanup *cleanup.Client
	config  *scraper.Config

	// newCapturer is replaced in tests.
	newCapturer func(url string, cfg *scraper.Config) Capturer
}

// NewAPI creates a new API instance. st and cl may be nil when storage or
// cleanup are not used.
func NewAPI(st *storage.Storage, cl *cleanup.Client, cfg *scraper.Config) *API {
	if cfg == nil {
		cfg = scraper.DefaultConfig()
	}
	return &API{
		storage: st,
		cleanup: cl,
		config:  cfg,
		newCapturer: func(url string, cfg *scraper.Config) Capturer {
			return scraper.New(url, cfg)
		},
	}
}

// CaptureOptions control CapturePage.
type CaptureOptions struct {
	// HTMLOnly skips the browser and converts the served HTML.
	HTMLOnly bool
	// Cleanup sends the Markdown through the cleanup service.
	Cleanup bool
	// Store upserts the result into the page store.
	Store bool
}

// CaptureResult is a converted page plus the raw accessibility tree it was
// rendered from, if any.
type CaptureResult struct {
	Page   *storage.Page
	AXTree []byte
}

// Convert decodes an accessibility tree document and renders it as Markdown.
func (a *API) Convert(data []byte) (string, error) {
	tree, err := axtree.Decode(data)
	if err != nil {
		return "", err
	}
	return markdown.Render(tree), nil
}

// CapturePage fetches url and converts it to Markdown. The accessibility
// tree is used when the browser produced one that renders to something;
// otherwise the page HTML is converted directly.
func (a *API) CapturePage(ctx context.Context, url string, opts CaptureOptions) (*CaptureResult, error) {
	c := a.newCapturer(url, a.config)
	res := &CaptureResult{Page: &storage.Page{URL: url}}

	var document string
	if opts.HTMLOnly {
		body, err := c.FetchHTML(ctx)
		if err != nil {
			return nil, err
		}
		document = body
	} else {
		capture, err := c.Capture(ctx)
		if err != nil {
			return nil, err
		}
		document = capture.HTML
		res.AXTree = capture.AXTree
		res.Page.Title = capture.Metadata.Title
		res.Page.Description = capture.Metadata.Description

		md, err := a.Convert(capture.AXTree)
		if err != nil {
			log.Printf("[WARN] accessibility tree for %s could not be decoded: %v", url, err)
		} else if strings.TrimSpace(md) != "" {
			res.Page.Markdown = md
			res.Page.Source = storage.SourceAXTree
		}
	}

	if res.Page.Source == "" {
		md, err := (&scraper.Parser{}).ToMarkdown(document)
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
		}
		res.Page.Markdown = md
		res.Page.Source = storage.SourceHTML
	}

	if res.Page.Title == "" && res.Page.Description == "" {
		if meta, err := scraper.ExtractMetadata(document); err == nil {
			res.Page.Title = meta.Title
			res.Page.Description = meta.Description
		}
	}

	if opts.Cleanup {
		cleaned, err := a.cleanup.Clean(ctx, res.Page.Markdown)
		if err != nil {
			return nil, fmt.Errorf("failed to clean markdown: %w", err)
		}
		res.Page.Markdown = cleaned
	}

	res.Page.Checksum = Checksum(res.Page.Markdown)
	res.Page.FetchedAt = time.Now().UTC()

	if opts.Store {
		if err := a.requireStorage(); err != nil {
			return nil, err
		}
		if err := a.storage.UpsertPage(res.Page); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Checksum is the hex SHA-256 of the Markdown text.
func Checksum(md string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(md)))
}

// GetPage retrieves a stored page by URL.
func (a *API) GetPage(url string) (*storage.Page, error) {
	if err := a.requireStorage(); err != nil {
		return nil, err
	}
	return a.storage.GetPage(url)
}

// ListPages lists stored pages and the total count.
func (a *API) ListPages(limit, offset int) ([]*storage.Page, int, error) {
	if err := a.requireStorage(); err != nil {
		return nil, 0, err
	}
	pages, err := a.storage.ListPages(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := a.storage.CountPages()
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// DeletePages deletes stored pages by URL prefix.
func (a *API) DeletePages(prefix string) (int64, error) {
	if err := a.requireStorage(); err != nil {
		return 0, err
	}
	return a.storage.DeletePagesByPrefix(prefix)
}

func (a *API) requireStorage() error {
	if a.storage == nil {
		return errors.New("storage is not configured")
	}
	return nil
}
