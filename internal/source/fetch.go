package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KaramelBytes/telecomx-cli/internal/logging"
	"go.uber.org/zap"
)

// maxPayload bounds the size of a downloaded dataset.
const maxPayload = 256 << 20

// ErrPayloadTooLarge is returned when a response body exceeds the size limit.
var ErrPayloadTooLarge = errors.New("payload too large")

// Fetcher downloads dataset payloads over HTTP with retry and backoff.
type Fetcher struct {
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxBytes    int64
	log         *zap.Logger
}

// NewFetcher allows customizing HTTP timeout and retry/backoff behavior.
// Non-positive values fall back to defaults.
func NewFetcher(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration, log *zap.Logger) *Fetcher {
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: httpTimeout},
		maxAttempts: retryMax,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		maxBytes:    maxPayload,
		log:         logging.OrNop(log),
	}
}

// Fetch performs a GET on url, retrying 429/5xx responses and transient network errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	backoff := f.baseDelay
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := f.once(ctx, url)
		if err == nil {
			f.log.Debug("dataset fetched", zap.String("url", url), zap.Int("bytes", len(body)), zap.Int("attempt", attempt))
			return body, nil
		}
		lastErr = err
		if attempt == f.maxAttempts || !retryable(err) {
			break
		}
		sleep := withJitter(backoff)
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			sleep = se.RetryAfter
		}
		if sleep > f.maxDelay {
			sleep = f.maxDelay
		}
		f.log.Warn("fetch failed, retrying", zap.String("url", url), zap.Int("attempt", attempt), zap.Duration("sleep", sleep), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (f *Fetcher) once(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "telecomx-cli")
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &UnreachableError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		se := &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(b)}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
				se.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, se
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &UnreachableError{URL: url, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w (limit %d bytes)", url, ErrPayloadTooLarge, f.maxBytes)
	}
	return body, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	var ue *UnreachableError
	if errors.As(err, &ue) {
		var nerr net.Error
		if errors.As(ue.Err, &nerr) && nerr.Timeout() {
			return true
		}
		var opErr *net.OpError
		if errors.As(ue.Err, &opErr) {
			return true
		}
		return errors.Is(ue.Err, io.EOF) || errors.Is(ue.Err, io.ErrUnexpectedEOF)
	}
	return false
}

// parseRetryAfterSeconds interprets a Retry-After header as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

func withJitter(d time.Duration) time.Duration {
	if d < 5 {
		return d
	}
	// +/-20%
	j := time.Duration(rand.Int63n(int64(d) / 5))
	if rand.Intn(2) == 0 {
		return d - j
	}
	return d + j
}
