package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/insightly/insightly-go/config"
)

// ResolveShortLink follows a shortened link (t.co and friends) to its
// final destination for mention attribution. The whole resolution is
// bounded by the configured timeout; a HEAD is tried first and a GET is
// used as fallback for servers that reject HEAD, except when the HEAD
// already timed out.
func ResolveShortLink(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.LinkResolveTimeout)
	defer cancel()

	final, err := followRedirects(ctx, http.MethodHead, rawURL)
	if err == nil {
		return final, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("link resolution timed out: %w", err)
	}

	final, err = followRedirects(ctx, http.MethodGet, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to resolve link: %w", err)
	}
	return final, nil
}

func followRedirects(ctx context.Context, method, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// The client follows redirects; the request attached to the final
	// response carries the resolved URL.
	return resp.Request.URL.String(), nil
}
