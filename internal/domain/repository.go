package domain

import (
	"context"
	"time"
)

// ProductFetcher performs one product lookup against a retailer API.
// A non-nil error is fatal for the run; every recoverable outcome is
// expressed through the returned FetchResult.
type ProductFetcher interface {
	FetchProduct(ctx context.Context, id string, fields FieldSet) (FetchResult, error)
}

// URLResolver resolves the public product page of an item
type URLResolver interface {
	ProductURL(ctx context.Context, id string) (string, error)
}

// TokenStore keeps access tokens until they expire
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
