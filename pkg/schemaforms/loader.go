package schemaforms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Loader reads OpenAPI documents from disk, an fs.FS or HTTP.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem resolves relative locations inside files instead of the
// working directory.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables http(s) locations using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
		}
	}
}

// WithHTTPFallback enables http(s) locations with a default client capped by
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
		if l.http == nil {
			l.http = &http.Client{Timeout: timeout}
		}
	}
}

// NewLoader builds a Loader. HTTP stays disabled unless an option enables it.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	if l.http != nil && l.timeout > 0 && l.http.Timeout == 0 {
		l.http.Timeout = l.timeout
	}
	return l
}

// Load returns the raw document at location: an http(s) URL, a path inside
// the configured fs.FS, or a file path.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("schemaforms: location is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if l.http == nil {
			return nil, errors.New("schemaforms: http support disabled")
		}
		return l.loadHTTP(ctx, location)
	}
	if l.fs != nil {
		data, err := fs.ReadFile(l.fs, location)
		if err != nil {
			return nil, fmt.Errorf("schemaforms: read %s: %w", location, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: read %s: %w", location, err)
	}
	return data, nil
}

func (l *Loader) loadHTTP(ctx context.Context, raw string) ([]byte, error) {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schemaforms: invalid url %q: %w", raw, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: build request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: fetch %s: %w", raw, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schemaforms: fetch %s: unexpected status %d", raw, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: read %s: %w", raw, err)
	}
	return data, nil
}
