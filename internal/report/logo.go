package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LogoFetcher retrieves the optional letterhead logo over HTTP. The export
// proceeds without a logo when the fetch fails; callers log and continue.
type LogoFetcher struct {
	URL  string
	HTTP *http.Client
}

// NewLogoFetcher creates a fetcher; an empty URL disables it.
func NewLogoFetcher(url string) *LogoFetcher {
	return &LogoFetcher{
		URL:  url,
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch downloads the logo bytes, or returns nil when no URL is configured.
func (f *LogoFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f == nil || f.URL == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo fetch: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 2<<20))
}
