// Package scraper retrieves web pages for conversion to Markdown.
//
// Pages can be fetched two ways: a plain HTTP GET that returns the served
// HTML, or a browser capture (see Capture) that renders the page in Chrome
// and also returns the browser's accessibility tree. Both paths share the
// same per-host rate limiting and concurrency cap.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// Config holds configuration options for the scraper.
type Config struct {
	// UserAgent is the User-Agent header value sent with HTTP requests and
	// reported by the browser
	UserAgent string
	// Timeout bounds a single fetch or browser capture
	Timeout time.Duration
	// RequestDelay specifies the minimum time between requests to the same host
	RequestDelay time.Duration
	// MaxConcurrent limits the total number of in-flight fetches and captures
	MaxConcurrent int
	// Headless runs Chrome without a window. Turn it off to watch the page
	// load or to get past interstitials by hand.
	Headless bool
	// WaitSelector is the CSS selector the browser waits for before reading
	// the page
	WaitSelector string
	// Verbose enables banners, spinners and tables on stdout
	Verbose bool
}

// DefaultConfig returns a default configuration with reasonable values.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:     "Mozilla/5.0 (compatible; axmd/1.0)",
		Timeout:       30 * time.Second,
		RequestDelay:  1 * time.Second,
		MaxConcurrent: 2,
		Headless:      true,
		WaitSelector:  "body",
	}
}

// Metadata holds metadata information extracted from a webpage.
type Metadata struct {
	// Title is the content of the <title> tag
	Title string
	// Description is the content of the meta description tag
	Description string
}

// Scraper fetches a single URL.
type Scraper struct {
	// URL is the page to fetch
	URL string
	// Metadata contains extracted metadata from the fetched content
	Metadata Metadata
	// Content holds the parsed HTML document
	Content *html.Node
	// HTML is the raw document as served or as rendered by the browser
	HTML string
	// Config contains all the configuration options for this scraper
	Config *Config
	// Verbose mirrors Config.Verbose
	Verbose bool

	client *http.Client
	// lastRequestTime tracks the last request time per host for rate limiting
	lastRequestTime map[string]time.Time
	// requestSem is a semaphore channel to limit concurrent requests
	requestSem chan struct{}
	mutex      sync.Mutex
}

// New creates a new scraper with the given URL and configuration.
// If config is nil, default configuration will be used.
func New(url string, config *Config) *Scraper {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}

	s := &Scraper{
		URL:             url,
		Config:          config,
		Verbose:         config.Verbose,
		client:          &http.Client{Timeout: config.Timeout},
		lastRequestTime: make(map[string]time.Time),
		requestSem:      make(chan struct{}, config.MaxConcurrent),
	}
	s.displayInitBanner()
	return s
}

// waitForRateLimit acquires a request slot and sleeps until RequestDelay has
// passed since the previous request to host. The caller must call release.
func (s *Scraper) waitForRateLimit(ctx context.Context, host string) (release func(), err error) {
	select {
	case s.requestSem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release = func() { <-s.requestSem }

	s.mutex.Lock()
	lastReq, exists := s.lastRequestTime[host]
	var wait time.Duration
	if exists {
		if elapsed := time.Since(lastReq); elapsed < s.Config.RequestDelay {
			wait = s.Config.RequestDelay - elapsed
		}
	}
	s.lastRequestTime[host] = time.Now().Add(wait)
	s.mutex.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

// GetContent fetches the URL over plain HTTP and parses it.
func (s *Scraper) GetContent(ctx context.Context) error {
	doc, body, err := s.fetchURL(ctx, s.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch content: %w", err)
	}

	s.Content = doc
	s.HTML = body
	return nil
}

// FetchHTML fetches the URL without a browser and returns the served HTML.
func (s *Scraper) FetchHTML(ctx context.Context) (string, error) {
	done := s.startSpinner("Fetching " + s.URL)
	err := s.GetContent(ctx)
	close(done)
	if err != nil {
		s.displayError(err)
		return "", err
	}
	return s.HTML, nil
}

// GetMetadata extracts metadata (title, description) from the parsed content.
// It requires that GetContent or Capture has been called first.
func (s *Scraper) GetMetadata() error {
	if s.Content == nil {
		return errors.New("content not found, call GetContent first")
	}

	s.Metadata.Title = strings.TrimSpace(extractTitle(s.Content))
	s.Metadata.Description = strings.TrimSpace(extractDescription(s.Content))
	s.displayMetadata()
	return nil
}

// ExtractMetadata parses an HTML document and returns its title and meta
// description.
func ExtractMetadata(document string) (Metadata, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Metadata{
		Title:       strings.TrimSpace(extractTitle(doc)),
		Description: strings.TrimSpace(extractDescription(doc)),
	}, nil
}

// extractTitle extracts the title from an HTML node
func extractTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := extractTitle(c); title != "" {
			return title
		}
	}

	return ""
}

// extractDescription extracts the meta description from an HTML node
func extractDescription(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var isDesc, hasContent bool
		var content string

		for _, a := range n.Attr {
			if a.Key == "name" && strings.EqualFold(a.Val, "description") {
				isDesc = true
			}
			if a.Key == "content" {
				content = a.Val
				hasContent = true
			}
		}

		if isDesc && hasContent {
			return content
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if desc := extractDescription(c); desc != "" {
			return desc
		}
	}

	return ""
}

// fetchURL fetches a URL and returns the parsed document and its raw text.
func (s *Scraper) fetchURL(ctx context.Context, urlStr string) (*html.Node, string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported URL scheme: %q", parsedURL.Scheme)
	}

	release, err := s.waitForRateLimit(ctx, parsedURL.Host)
	if err != nil {
		return nil, "", err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.Config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return nil, "", fmt.Errorf("not HTML content: %s", contentType)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, string(bodyBytes), nil
}
