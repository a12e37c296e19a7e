package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	imageFetchTimeout  = 15 * time.Second
	imageFetchAttempts = 2
)

// fetchImageBytes downloads an image with a bounded retry: each attempt has
// its own timeout, and attempts are spaced by a linear backoff. Exhausting
// the budget surfaces the last failure; this is never swallowed.
func fetchImageBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= imageFetchAttempts; attempt++ {
		data, err := fetchOnce(ctx, client, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if attempt < imageFetchAttempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed to download image after %d attempts: %w", imageFetchAttempts, lastErr)
}

func fetchOnce(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, imageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching image", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
