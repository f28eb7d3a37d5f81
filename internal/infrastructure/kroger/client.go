package kroger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/infrastructure/retailhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultLocationID is 1 W Corry St, Cincinnati, OH 45219
	DefaultLocationID = "01400929"
	DefaultScope      = "product.compact"

	productPath = "/v1/products/{id}"

	// maxReauth bounds how often a 401 triggers a new token for one request
	maxReauth = 1
)

// Options configures a Client
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	LocationID   string
	Scope        string
	Timeout      time.Duration
	RateLimit    float64 // requests per second, 0 disables throttling
	Burst        int
}

// Client handles communication with the Kroger product API
type Client struct {
	http        *resty.Client
	session     *Session
	locationID  string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a Kroger client with an unauthenticated session.
// Missing credentials are reported as domain.ErrMissingCredentials.
func NewClient(opts Options, tokens domain.TokenStore, logger *zap.Logger) (*Client, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: set CLIENT_ID in the environment or .env file", domain.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set CLIENT_SECRET in the environment or .env file", domain.ErrMissingCredentials)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LocationID == "" {
		opts.LocationID = DefaultLocationID
	}
	if opts.Scope == "" {
		opts.Scope = DefaultScope
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "shelfprice/1.0").
		SetLogger(logger.Sugar())

	credentials := EncodeCredentials(opts.ClientID, opts.ClientSecret)

	return &Client{
		http:        httpClient,
		session:     NewSession(httpClient, credentials, opts.Scope, tokens, logger),
		locationID:  opts.LocationID,
		rateLimiter: retailhttp.NewLimiter(opts.RateLimit, opts.Burst),
		logger:      logger,
	}, nil
}

// Session exposes the client's OAuth session
func (c *Client) Session() *Session {
	return c.session
}

// SetDebug enables request/response dumps through the client logger
func (c *Client) SetDebug(debug bool) {
	c.http.SetDebug(debug)
}

// FetchProduct requests one product. The field set is ignored; the Kroger
// API always returns the compact product document.
//
// A 401 invalidates the session, acquires a new token and retries once.
// A second 401 is returned as domain.ErrUnauthorized.
func (c *Client) FetchProduct(ctx context.Context, id string, _ domain.FieldSet) (domain.FetchResult, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.session.Token(ctx)
		if err != nil {
			return domain.FetchResult{}, err
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return domain.FetchResult{}, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("Accept", "application/json").
			SetPathParam("id", id).
			SetQueryParam("filter.locationId", c.locationID).
			Get(productPath)
		if err != nil {
			c.logger.Warn("request failed", zap.String("id", id), zap.Error(err))
			return retailhttp.TransportError(ctx, err)
		}

		if resp.StatusCode() == http.StatusUnauthorized {
			if attempt >= maxReauth {
				return domain.FetchResult{}, fmt.Errorf("%w: product %s", domain.ErrUnauthorized, id)
			}
			c.logger.Info("access token rejected, re-authenticating", zap.String("id", id))
			if err := c.session.Invalidate(ctx); err != nil {
				return domain.FetchResult{}, fmt.Errorf("failed to invalidate token: %w", err)
			}
			continue
		}

		result := retailhttp.Classify(resp.StatusCode(), resp.Body())
		if result.Kind == domain.KindHTTPError {
			c.logger.Warn("API error", zap.String("id", id), zap.Int("status", resp.StatusCode()))
		}
		return result, nil
	}
}

// ProductIDFromURL extracts the product id from a Kroger product page URL
// of the form https://www.kroger.com/p/<slug>/<id>
func ProductIDFromURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}

	parts := strings.Split(clean, "/")
	if len(parts) < 6 || parts[5] == "" {
		return "", fmt.Errorf("%w: no product id in url %q", domain.ErrInvalidIdentifier, raw)
	}
	return parts[5], nil
}
