package vrchat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/vrca-downloader/internal/logging"
	"github.com/ytget/vrca-downloader/internal/model"
)

// API constants
const (
	FilesURL  = "https://api.vrchat.cloud/api/1/files"
	UserAgent = "vrca-downloader/1.2"

	PageSizeParam = "n"
	OffsetParam   = "offset"
)

// Listing defaults
const (
	DefaultPageSize       = 100
	DefaultRequestTimeout = 15 * time.Second
	DefaultPageInterval   = 50 * time.Millisecond
)

// Client pages through the file listing endpoint
type Client struct {
	baseURL        string
	httpClient     *http.Client
	pageSize       int
	requestTimeout time.Duration
	pageInterval   time.Duration
	logger         *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another listing endpoint (tests, mirrors)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the shared HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageInterval sets the pause between consecutive page requests
func WithPageInterval(d time.Duration) Option {
	return func(c *Client) { c.pageInterval = d }
}

// WithRequestTimeout bounds each page request
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a listing client with default settings
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:        FilesURL,
		httpClient:     NewHTTPClient(),
		pageSize:       DefaultPageSize,
		requestTimeout: DefaultRequestTimeout,
		pageInterval:   DefaultPageInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListFiles fetches every page of the user's files until an empty page comes
// back. progress is called with the current offset before each request.
// A 401 aborts immediately with a KindAuth error; any other failure is a
// KindNetwork error. Nothing is retried.
func (c *Client) ListFiles(ctx context.Context, cookie string, progress func(offset int)) ([]model.RawFileRecord, error) {
	if cookie == "" {
		return nil, model.NewError(model.KindNotAuthenticated, "list files", nil)
	}

	limit := rate.Inf
	if c.pageInterval > 0 {
		limit = rate.Every(c.pageInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var all []model.RawFileRecord
	offset := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, model.NewError(model.KindNetwork, "list files", err)
		}

		if progress != nil {
			progress(offset)
		}

		page, err := c.fetchPage(ctx, cookie, offset)
		if err != nil {
			c.logger.Warn("listing page failed", "offset", offset, "cookie", logging.MaskToken(cookie), "error", err)
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		offset += c.pageSize
	}

	c.logger.Info("listing complete", "records", len(all), "pages", offset/c.pageSize+1)
	return all, nil
}

// fetchPage performs one bounded page request
func (c *Client) fetchPage(ctx context.Context, cookie string, offset int) ([]model.RawFileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "list files", fmt.Errorf("invalid listing URL: %w", err))
	}
	q := u.Query()
	q.Set(PageSizeParam, strconv.Itoa(c.pageSize))
	q.Set(OffsetParam, strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "list files", fmt.Errorf("failed to build request: %w", err))
	}
	SetHeaders(req, cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "list files", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &model.Error{Kind: model.KindAuth, Op: "list files", Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &model.Error{Kind: model.KindNetwork, Op: "list files", Status: resp.StatusCode,
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var page []model.RawFileRecord
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, model.NewError(model.KindNetwork, "list files", fmt.Errorf("failed to decode page at offset %d: %w", offset, err))
	}
	return page, nil
}
