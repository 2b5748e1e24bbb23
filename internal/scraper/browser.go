package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/cdproto/accessibility"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"
)

// Capture is a page as rendered by the browser.
type Capture struct {
	URL      string
	HTML     string
	Metadata Metadata
	// AXTree is {"nodes": [...]} as reported by Accessibility.getFullAXTree.
	AXTree []byte
}

// Capture loads the URL in Chrome, waits for Config.WaitSelector and reads
// both the rendered HTML and the full accessibility tree.
func (s *Scraper) Capture(ctx context.Context) (*Capture, error) {
	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" && parsedURL.Scheme != "file" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", parsedURL.Scheme)
	}

	release, err := s.waitForRateLimit(ctx, parsedURL.Host)
	if err != nil {
		return nil, err
	}
	defer release()

	done := s.startSpinner("Rendering " + s.URL)
	defer close(done)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Config.Headless),
		chromedp.UserAgent(s.Config.UserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.Config.Timeout)
	defer cancelTimeout()

	waitSelector := s.Config.WaitSelector
	if waitSelector == "" {
		waitSelector = "body"
	}

	var document string
	var nodes []*accessibility.Node
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(s.URL),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &document, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := accessibility.Enable().Do(ctx); err != nil {
				return fmt.Errorf("failed to enable accessibility domain: %w", err)
			}
			var err error
			nodes, err = accessibility.GetFullAXTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accessibility tree: %w", err)
			}
			return nil
		}),
	)
	if err != nil {
		s.displayError(err)
		return nil, fmt.Errorf("failed to capture %s: %w", s.URL, err)
	}

	tree, err := encodeAXTree(nodes)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	s.Content = doc
	s.HTML = document
	if err := s.GetMetadata(); err != nil {
		return nil, err
	}

	return &Capture{
		URL:      s.URL,
		HTML:     document,
		Metadata: s.Metadata,
		AXTree:   tree,
	}, nil
}

// encodeAXTree wraps the protocol nodes in the {"nodes": [...]} envelope
// read by axtree.Decode.
func encodeAXTree(nodes []*accessibility.Node) ([]byte, error) {
	if nodes == nil {
		nodes = []*accessibility.Node{}
	}
	data, err := json.Marshal(struct {
		Nodes []*accessibility.Node `json:"nodes"`
	}{Nodes: nodes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode accessibility tree: %w", err)
	}
	return data, nil
}
