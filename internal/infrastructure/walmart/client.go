package walmart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/infrastructure/retailhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultStoreID is 4000 Red Bank Rd, Cincinnati, OH
const DefaultStoreID = "2250"

const productPath = "/v3/api/products/{id}"

// Options configures a Client
type Options struct {
	BaseURL   string
	WebURL    string // host prefixed to product page paths, defaults to BaseURL
	StoreID   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables throttling
	Burst     int
}

// Client handles communication with the Walmart grocery product API
type Client struct {
	http        *resty.Client
	webURL      string
	storeID     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Walmart API client
func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StoreID == "" {
		opts.StoreID = DefaultStoreID
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	webURL := opts.WebURL
	if webURL == "" {
		webURL = opts.BaseURL
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "shelfprice/1.0").
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	return &Client{
		http:        httpClient,
		webURL:      strings.TrimRight(webURL, "/"),
		storeID:     opts.StoreID,
		rateLimiter: retailhttp.NewLimiter(opts.RateLimit, opts.Burst),
		logger:      logger,
	}
}

// SetDebug enables request/response dumps through the client logger
func (c *Client) SetDebug(debug bool) {
	c.http.SetDebug(debug)
}

// FetchProduct requests one product with the given field set.
// Not-found and error statuses come back as FetchResult variants; only a
// connection reset or a cancelled context is returned as an error.
func (c *Client) FetchProduct(ctx context.Context, id string, fields domain.FieldSet) (domain.FetchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.FetchResult{}, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParams(map[string]string{
			"itemFields": string(fields),
			"storeId":    c.storeID,
		}).
		Get(productPath)
	if err != nil {
		c.logger.Warn("request failed", zap.String("id", id), zap.Error(err))
		return retailhttp.TransportError(ctx, err)
	}

	result := retailhttp.Classify(resp.StatusCode(), resp.Body())
	switch result.Kind {
	case domain.KindNotFound:
		c.logger.Debug("product not found", zap.String("id", id))
	case domain.KindHTTPError:
		c.logger.Warn("API error",
			zap.String("id", id),
			zap.Int("status", resp.StatusCode()),
			zap.String("fields", string(fields)))
	}

	return result, nil
}

// ProductURL resolves the grocery product page for an item, or domain.NoURL
// when the basic field set carries none
func (c *Client) ProductURL(ctx context.Context, id string) (string, error) {
	res, err := c.FetchProduct(ctx, id, domain.FieldsBasic)
	if err != nil {
		return "", err
	}
	if !res.IsDocument() {
		return domain.NoURL, nil
	}

	path, ok := res.Document.LookupString("basic", "productUrl")
	if !ok || path == "" {
		return domain.NoURL, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.webURL + path, nil
}

// Status reports the HTTP status of an "all" lookup, 0 on transport failure
func (c *Client) Status(ctx context.Context, id string) (int, error) {
	res, err := c.FetchProduct(ctx, id, domain.FieldsAll)
	if err != nil {
		return 0, err
	}
	return res.StatusCode, nil
}
