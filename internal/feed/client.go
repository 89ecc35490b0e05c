// Package feed reads and deletes activity events held by the upstream
// recipe service over its HTTP API.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/repository"
)

var (
	// ErrUpstream indicates the upstream service failed or answered unexpectedly.
	ErrUpstream = errors.New("upstream activity feed error")
	// ErrMalformed indicates the upstream payload could not be decoded.
	ErrMalformed = errors.New("malformed activity feed")
)

const (
	defaultTimeout   = 10 * time.Second
	defaultDeleteRPS = 10
)

// Config configures the feed client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// DeleteRPS bounds per-event deletions per second.
	DeleteRPS float64
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client implements session.EventSource against the upstream API.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a feed client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid feed base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = slog.Default()
	}

	rps := cfg.DeleteRPS
	if rps <= 0 {
		rps = defaultDeleteRPS
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}, nil
}

// List fetches recent events. The upstream only understands limit, so the
// remaining options are applied to the fetched page. tenantID is unused:
// the bearer token scopes the upstream account.
func (c *Client) List(ctx context.Context, _ string, opts activity.ListOptions) ([]activity.Event, error) {
	endpoint := c.baseURL.JoinPath("api", "activities")
	if opts.Limit > 0 {
		q := endpoint.Query()
		q.Set("limit", strconv.Itoa(opts.Limit+opts.Offset))
		endpoint.RawQuery = q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamStatus(resp)
	}

	events, err := DecodeEvents(resp.Body)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Debug("fetched activity feed", "events", len(events))
	}
	return applyListOptions(events, opts), nil
}

// Delete removes one event upstream, waiting on the rate limiter first.
func (c *Client) Delete(ctx context.Context, _ string, id string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL.JoinPath("api", "activities", id))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return repository.ErrNotFound
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return upstreamStatus(resp)
	}
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func upstreamStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s %s: status %d: %s", ErrUpstream,
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
}

func applyListOptions(events []activity.Event, opts activity.ListOptions) []activity.Event {
	out := make([]activity.Event, 0, len(events))
	for _, e := range events {
		if opts.Username != "" && e.Username != opts.Username {
			continue
		}
		if opts.ActivityType != nil && e.ActivityType != *opts.ActivityType {
			continue
		}
		if opts.Since != nil && e.CreatedAt.Before(*opts.Since) {
			continue
		}
		out = append(out, e)
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []activity.Event{}
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
