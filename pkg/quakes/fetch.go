package quakes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/quake-harvester/internal/logger"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
)

const (
	ReadTimeout    = 10 * time.Second
	ConnectTimeout = 15 * time.Second
)

var (
	defaultClientOnce sync.Once
	defaultClient     httpclient.Client
)

// DefaultClient returns the shared client configured with ConnectTimeout and ReadTimeout.
func DefaultClient() httpclient.Client {
	defaultClientOnce.Do(func() {
		defaultClient = httpclient.NewTimeoutClient(httpclient.Timeouts{
			Connect: ConnectTimeout,
			Read:    ReadTimeout,
		})
	})
	return defaultClient
}

// Fetch GETs rawURL and returns the body as UTF-8 text.
// Malformed URLs, transport failures and non-200 responses all yield "".
// A nil client uses DefaultClient.
func Fetch(ctx context.Context, client httpclient.Client, rawURL string) string {
	body, err := fetchBody(ctx, client, rawURL, nil)
	if err != nil {
		logFetchFailure(rawURL, err)
		return ""
	}
	return body
}

func fetchBody(ctx context.Context, client httpclient.Client, rawURL string, headers map[string]string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}
	if client == nil {
		client = DefaultClient()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := client.Get(ctx, rawURL, headers)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w %d body: %s", ErrStatus, resp.StatusCode(), responseSnippet(body))
	}

	return strings.ToValidUTF8(string(body), "\uFFFD"), nil
}

func validateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}
	return nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

func logFetchFailure(rawURL string, err error) {
	logger.WarnObj("earthquake feed fetch failed", "fetch_error", map[string]any{
		"url":     rawURL,
		"outcome": Outcome(err),
		"error":   err.Error(),
	})
}
