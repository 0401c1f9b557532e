package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var errNilBody = errors.New("empty body")

const maxErrorBody = 4 << 10

// ClientConfig configures DefaultClient.
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	HTTPClient     *http.Client
	Tokens         TokenSource
}

// DefaultClient implements Client over plain JSON/HTTP. It never retries and never caches.
type DefaultClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a DefaultClient. A zero RequestsPerSec disables outbound pacing.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*DefaultClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", cfg.BaseURL)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSec > 0 {
		burst := int(cfg.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultClient{
		baseURL: base,
		http:    httpClient,
		tokens:  cfg.Tokens,
		limiter: limiter,
		logger:  logger,
	}, nil
}

func (c *DefaultClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Path: path, Err: err}
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method), zap.String("path", path),
			zap.String("requestID", requestID), zap.Error(err))
		return &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)),
		zap.String("requestID", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &SchemaError{Path: path, Err: errNilBody}
		}
		return &SchemaError{Path: path, Err: err}
	}
	return validateBody(path, out)
}
