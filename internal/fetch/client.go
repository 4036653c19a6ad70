package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/metrics"
	"github.com/WTMsoft/PremScout/internal/store"
	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetries   = 3
	defaultRetryWait = 250 * time.Millisecond
)

// FetchError describes a failed download of a feed source.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Client downloads feed bodies from HTTP or the local filesystem and keeps a
// copy of each in Store.
type Client struct {
	HTTP         *http.Client
	Store        *store.FileStore
	UserAgent    string
	Retries      int
	RetryWait    time.Duration
	UseCache     bool
	DisableWrite bool
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
}

func NewClient(st *store.FileStore) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Store:     st,
		UserAgent: "premscout/1.0",
		Retries:   defaultRetries,
		RetryWait: defaultRetryWait,
	}
}

// Fetch returns the body of source, a URL or file path, caching it under relPath.
// A cached copy is returned first when UseCache is set and force is false, and
// is used as a fallback when the source cannot be read.
func (c *Client) Fetch(ctx context.Context, feed, source, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.cached(relPath) {
		return c.Store.ReadRaw(relPath)
	}

	body, err := c.download(ctx, feed, source)
	if err != nil {
		if c.cached(relPath) && ctx.Err() == nil {
			logging.OrDiscard(c.Logger).Warn("Feed unavailable, using cached copy",
				slog.String(logging.FieldFeed, feed), slog.String(logging.FieldSource, source), logging.Err(err))
			return c.Store.ReadRaw(relPath)
		}
		return nil, err
	}

	if c.Store != nil && !c.DisableWrite {
		if err := c.Store.WriteRaw(relPath, body); err != nil {
			logging.OrDiscard(c.Logger).Warn("Failed to cache feed",
				slog.String(logging.FieldFeed, feed), logging.Err(err))
		}
	}
	return body, nil
}

func (c *Client) cached(relPath string) bool {
	return c.Store != nil && c.Store.Exists(relPath)
}

func (c *Client) download(ctx context.Context, feed, source string) ([]byte, error) {
	if !isRemote(source) {
		start := time.Now()
		body, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
		c.Metrics.RecordFeedAttempt(feed, time.Since(start), err)
		if err != nil {
			return nil, &FetchError{Source: source, Err: err}
		}
		return body, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryWait()
	retries := c.Retries
	if retries < 0 {
		retries = 0
	}
	withCtx := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		start := time.Now()
		b, err := c.get(ctx, source)
		c.Metrics.RecordFeedAttempt(feed, time.Since(start), err)
		if err != nil {
			if fe, ok := AsFetchError(err); ok && fe.StatusCode >= 400 && fe.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			logging.OrDiscard(c.Logger).Debug("Feed fetch attempt failed",
				slog.String(logging.FieldFeed, feed), slog.String(logging.FieldSource, source),
				slog.Int("attempt", attempt), logging.Err(err))
			return err
		}
		body = b
		return nil
	}
	if err := backoff.Retry(op, withCtx); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, backoff.Permanent(&FetchError{Source: source, Err: err})
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode}
	}
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	return body, nil
}

func (c *Client) retryWait() time.Duration {
	if c.RetryWait <= 0 {
		return defaultRetryWait
	}
	return c.RetryWait
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
