package pollen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

// DefaultURL is the Met Office pollen forecast page.
const DefaultURL = "https://metoffice.gov.uk/weather/warnings-and-advice/seasonal-advice/pollen-forecast"

// DefaultRegion is the element id of the forecast table to read (south east).
const DefaultRegion = "se"

// Fetcher returns the current pollen category.
type Fetcher interface {
	Fetch(ctx context.Context) (Category, error)
}

// HTTPFetcher scrapes today's category from the forecast page.
type HTTPFetcher struct {
	URL    string
	Region string
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given page and region id.
func NewHTTPFetcher(url, region string) *HTTPFetcher {
	return &HTTPFetcher{
		URL:    url,
		Region: region,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the page and extracts today's category.
func (f *HTTPFetcher) Fetch(ctx context.Context) (Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return Unknown, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("get %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown, fmt.Errorf("get %s: status %d", f.URL, resp.StatusCode)
	}

	return Extract(resp.Body, f.Region)
}

// Extract finds the element with id region, takes the first span beneath
// it (today's forecast) and parses its data-category attribute.
func Extract(r io.Reader, region string) (Category, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := find(doc, func(n *html.Node) bool { return attr(n, "id") == region })
	if root == nil {
		return Unknown, fmt.Errorf("%w: #%s not found on page", ErrParse, region)
	}

	span := find(root, func(n *html.Node) bool { return n != root && n.Data == "span" })
	if span == nil {
		return Unknown, fmt.Errorf("%w: no span under #%s", ErrParse, region)
	}

	for _, a := range span.Attr {
		if a.Key == "data-category" {
			return ParseCategory(a.Val)
		}
	}
	return Unknown, fmt.Errorf("%w: no data-category on today's span", ErrParse)
}

// find returns the first element node in document order matching match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
