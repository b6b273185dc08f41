// Package logo fetches and decodes the store logo referenced by a
// receipt document. Decoding lives behind the Source interface so the
// raster encoder never touches transport or format concerns.
package logo

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"
)

// LoadError reports a logo that could not be fetched or decoded. The
// composer treats it as non-fatal: the receipt prints without a logo.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load logo %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Source loads an addressable image resource.
type Source interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// HTTPSource loads logos over HTTP(S), from file:// URLs, or from plain
// local paths. The zero value uses http.DefaultClient.
type HTTPSource struct {
	Client *http.Client
}

// Load fetches and decodes the resource at url. One attempt, no retry;
// cancellation comes from ctx.
func (s *HTTPSource) Load(ctx context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return s.loadHTTP(ctx, url)
	}
	return loadFile(strings.TrimPrefix(url, "file://"), url)
}

func (s *HTTPSource) loadHTTP(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	return img, nil
}

func loadFile(path, url string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	return img, nil
}
