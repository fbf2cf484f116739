package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Preloader checks that an image URL can be loaded
type Preloader func(ctx context.Context, src string) error

// Background hands out cache-busted URLs for the background image endpoint
type Background struct {
	endpoint string
	preload  Preloader
	now      func() time.Time

	mu      sync.Mutex
	url     string
	loading bool
	lastErr error
}

// NewBackground creates a background source. A nil preload accepts every URL.
func NewBackground(endpoint string, preload Preloader) *Background {
	return &Background{
		endpoint: endpoint,
		preload:  preload,
		now:      time.Now,
	}
}

// HTTPPreloader returns a Preloader that issues a HEAD request and requires a 2xx image response
func HTTPPreloader(client *http.Client) Preloader {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, src string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("image failed to load: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("image failed to load: status %d", resp.StatusCode)
		}
		return nil
	}
}

// URL returns the current background URL and the error of the last refresh
func (b *Background) URL() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, b.lastErr
}

// Refresh builds a new cache-busted URL and adopts it once it loads.
// A refresh already in flight makes this call a no-op.
func (b *Background) Refresh(ctx context.Context) (string, error) {
	b.mu.Lock()
	if b.loading {
		current := b.url
		b.mu.Unlock()
		return current, nil
	}
	b.loading = true
	b.lastErr = nil
	b.mu.Unlock()

	next, err := b.nextURL()
	if err == nil && b.preload != nil {
		err = b.preload(ctx, next)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		b.lastErr = err
		return b.url, err
	}
	b.url = next
	return next, nil
}

func (b *Background) nextURL() (string, error) {
	u, err := url.Parse(b.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid background endpoint: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(b.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
