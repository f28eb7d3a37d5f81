package walmart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shelfprice/collector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL: baseURL,
		WebURL:  "https://grocery.walmart.com",
		StoreID: "2250",
	}, nil)
}

func TestNewClient(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://grocery.walmart.com/"}, nil)

	assert.NotNil(t, client)
	assert.Equal(t, DefaultStoreID, client.storeID)
	assert.Equal(t, "https://grocery.walmart.com", client.webURL)
	assert.NotNil(t, client.http)
	assert.NotNil(t, client.rateLimiter)
	assert.NotNil(t, client.logger)
}

func TestFetchProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/api/products/10450114", r.URL.Path)
		assert.Equal(t, "store", r.URL.Query().Get("itemFields"))
		assert.Equal(t, "2250", r.URL.Query().Get("storeId"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"store":{"price":{"list":2.58},"isInStock":true}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	res, err := client.FetchProduct(context.Background(), "10450114", domain.FieldsStore)

	require.NoError(t, err)
	assert.Equal(t, domain.KindDocument, res.Kind)
	price, ok := res.Document.Lookup("store", "price", "list")
	assert.True(t, ok)
	assert.Equal(t, json.Number("2.58"), price)
}

func TestFetchProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).FetchProduct(context.Background(), "1", domain.FieldsStore)

	require.NoError(t, err)
	assert.Equal(t, domain.KindNotFound, res.Kind)
}

func TestFetchProduct_ServerError_NoRetry(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).FetchProduct(context.Background(), "1", domain.FieldsStore)

	require.NoError(t, err)
	assert.Equal(t, domain.KindHTTPError, res.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestFetchProduct_ForbiddenBodyIsDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detailed":{"description":"Gluten Free bread"}}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL).FetchProduct(context.Background(), "1", domain.FieldsDetailed)

	require.NoError(t, err)
	assert.Equal(t, domain.KindDocument, res.Kind)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	description, ok := res.Document.LookupString("detailed", "description")
	assert.True(t, ok)
	assert.Equal(t, "Gluten Free bread", description)
}

func TestFetchProduct_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).FetchProduct(ctx, "1", domain.FieldsStore)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestProductURL(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "relative path is joined to the web host",
			status: http.StatusOK,
			body:   `{"basic":{"productUrl":"/ip/Great-Value-Milk/10450114"}}`,
			want:   "https://grocery.walmart.com/ip/Great-Value-Milk/10450114",
		},
		{
			name:   "absolute url is kept",
			status: http.StatusOK,
			body:   `{"basic":{"productUrl":"https://www.walmart.com/ip/1"}}`,
			want:   "https://www.walmart.com/ip/1",
		},
		{
			name:   "missing basic",
			status: http.StatusOK,
			body:   `{"store":{}}`,
			want:   domain.NoURL,
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			want:   domain.NoURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "basic", r.URL.Query().Get("itemFields"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := newTestClient(server.URL).ProductURL(context.Background(), "10450114")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("itemFields"))
		if r.URL.Path == "/v3/api/products/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"basic":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.Status(context.Background(), "10450114")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, err = client.Status(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}
