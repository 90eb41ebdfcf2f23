package fetcher

import (
	"context"
	"io"
	"net/http"
)

// Page is a fetched HTML document.
type Page struct {
	Body       string
	StatusCode int
}

// PageSource retrieves the page a link resolves to.
type PageSource interface {
	FetchPage(ctx context.Context, pageURL string) (*Page, error)
}

// HTTPPageSource fetches pages with a plain GET.
type HTTPPageSource struct {
	client *http.Client
}

func NewHTTPPageSource(client *http.Client) *HTTPPageSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPageSource{client: client}
}

// FetchPage returns the body whatever the status code is.
func (s *HTTPPageSource) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	body, status, err := get(ctx, s.client, pageURL)
	if err != nil {
		return nil, err
	}
	return &Page{Body: string(body), StatusCode: status}, nil
}

func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
