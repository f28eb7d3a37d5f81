// Package retailhttp holds the response handling shared by the retailer
// clients: body decoding into a FetchResult, transport error triage and
// request throttling.
package retailhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"syscall"

	"github.com/shelfprice/collector/internal/domain"
	"golang.org/x/time/rate"
)

// NewLimiter builds a token bucket allowing rps requests per second.
// A non-positive rps disables throttling.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Classify maps an HTTP status and body to a FetchResult.
//
// 404 is NotFound and any status above 404 is HttpError. Every other
// status, 400-403 included, has its body read: no body is Empty and a body
// that is not a JSON object is HttpError with the original status.
func Classify(status int, body []byte) domain.FetchResult {
	if status == http.StatusNotFound {
		return domain.NotFoundResult()
	}
	if status > http.StatusNotFound {
		return domain.HTTPErrorResult(status)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		res := domain.EmptyResult()
		res.StatusCode = status
		return res
	}

	doc, err := DecodeDocument(trimmed)
	if err != nil {
		return domain.HTTPErrorResult(status)
	}

	res := domain.DocumentResult(doc)
	res.StatusCode = status
	return res
}

// DecodeDocument decodes a JSON object keeping numbers as json.Number so
// prices are written exactly as the retailer sent them.
func DecodeDocument(body []byte) (domain.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc domain.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return doc, nil
}

// TransportError decides what a failed round trip means for the run.
// Connection resets and context cancellation are fatal; any other
// transport failure becomes an HttpError result with status 0.
func TransportError(ctx context.Context, err error) (domain.FetchResult, error) {
	if errors.Is(err, syscall.ECONNRESET) {
		return domain.FetchResult{}, fmt.Errorf("%w: %v", domain.ErrConnectionReset, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.FetchResult{}, ctxErr
	}
	return domain.HTTPErrorResult(0), nil
}
