package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string

	// Set when the response carried a usable Retry-After header.
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("export status %d: %s", e.Code, e.Body)
}

// Longest server-requested pause honoured between attempts.
const maxRetryAfter = 30 * time.Second

func (g *GoogleSheetsSource) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	return req, nil
}

func (g *GoogleSheetsSource) do(req *http.Request) ([]byte, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		he := &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
		he.RetryAfter, he.HasRetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), g.now())
		return nil, he
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// parseRetryAfter accepts both delay-seconds and HTTP-date forms.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	if sec, err := strconv.Atoi(v); err == nil {
		if sec < 0 {
			return 0, false
		}
		return min(time.Duration(sec)*time.Second, maxRetryAfter), true
	}

	at, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	return min(max(at.Sub(now), 0), maxRetryAfter), true
}

// retryDelay reports whether err is transient and how long to wait before
// the next attempt. Exports throttled with 429 or 503 often say how long.
func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			if he.HasRetryAfter {
				return he.RetryAfter, true
			}
			return backoff, true
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
			return backoff, true
		}
		return 0, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backoff, true
	}
	return 0, false
}

// download fetches one export, retrying transient failures until
// maxAttempts is reached or ctx ends. Each retry is reported to metrics.
func (g *GoogleSheetsSource) download(ctx context.Context, url string) ([]byte, error) {
	backoff := g.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := g.newRequest(ctx, url)
		if err != nil {
			return nil, err
		}

		body, err := g.do(req)
		if err == nil {
			return body, nil
		}

		wait, ok := retryDelay(err, backoff)
		if !ok || attempt >= g.maxAttempts {
			return nil, fmt.Errorf("attempt %d/%d: %w", attempt, g.maxAttempts, err)
		}
		if g.metrics != nil {
			g.metrics.SheetFetchRetry()
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}
}
