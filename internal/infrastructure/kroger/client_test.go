package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKroger serves the token and product endpoints. Tokens are numbered
// so tests can tell a re-acquired token from the first one.
type fakeKroger struct {
	tokenCalls   atomic.Int32
	productCalls atomic.Int32
	tokenStatus  int
	// productHandler decides the product response for the bearer token it sees
	productHandler func(w http.ResponseWriter, r *http.Request, token string)
}

func (f *fakeKroger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/v1/connect/oauth2/token":
		n := f.tokenCalls.Add(1)
		if f.tokenStatus != 0 && f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": fmt.Sprintf("token-%d", n),
			"expires_in":   1800,
			"token_type":   "bearer",
		})
	case strings.HasPrefix(r.URL.Path, "/v1/products/"):
		f.productCalls.Add(1)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.productHandler(w, r, token)
	default:
		w.WriteHeader(http.StatusTeapot)
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Options{
		BaseURL:      baseURL,
		ClientID:     "id",
		ClientSecret: "secret",
	}, cache.NewMemoryCache(), nil)
	require.NoError(t, err)
	return client
}

func TestNewClient_MissingCredentials(t *testing.T) {
	_, err := NewClient(Options{ClientSecret: "secret"}, cache.NewMemoryCache(), nil)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "CLIENT_ID")

	_, err = NewClient(Options{ClientID: "id"}, cache.NewMemoryCache(), nil)
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "CLIENT_SECRET")
}

func TestNewClient_Defaults(t *testing.T) {
	client := newTestClient(t, "https://api-ce.kroger.com")

	assert.Equal(t, DefaultLocationID, client.locationID)
	assert.Equal(t, DefaultScope, client.session.scope)
	assert.Equal(t, EncodeCredentials("id", "secret"), client.session.credentials)
}

func TestEncodeCredentials(t *testing.T) {
	assert.Equal(t, "aWQ6c2VjcmV0", EncodeCredentials("id", "secret"))
}

func TestAuthenticate_SendsClientCredentialsGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/connect/oauth2/token", r.URL.Path)
		assert.Equal(t, "Basic aWQ6c2VjcmV0", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "product.compact", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","expires_in":1800}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	assert.False(t, client.Session().Authenticated(ctx))

	token, err := client.Session().Authenticate(ctx)

	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.True(t, client.Session().Authenticated(ctx))
}

func TestAuthenticate_Failure(t *testing.T) {
	fake := &fakeKroger{tokenStatus: http.StatusUnauthorized}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchProduct(context.Background(), "0001111041700", domain.FieldsStore)

	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Equal(t, int32(0), fake.productCalls.Load())
}

func TestAuthenticate_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":1800}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Session().Authenticate(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestFetchProduct_Success(t *testing.T) {
	fake := &fakeKroger{
		productHandler: func(w http.ResponseWriter, r *http.Request, token string) {
			assert.Equal(t, "/v1/products/0001111041700", r.URL.Path)
			assert.Equal(t, DefaultLocationID, r.URL.Query().Get("filter.locationId"))
			assert.Equal(t, "token-1", token)
			w.Write([]byte(`{"data":{"items":[{"price":{"regular":2.49}}]}}`))
		},
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := client.FetchProduct(ctx, "0001111041700", domain.FieldsStore)
		require.NoError(t, err)
		price, ok := res.Document.LookupString("data", "items", "0", "price", "regular")
		assert.True(t, ok)
		assert.Equal(t, "2.49", price)
	}

	assert.Equal(t, int32(1), fake.tokenCalls.Load(), "token should be reused while valid")
	assert.Equal(t, int32(3), fake.productCalls.Load())
}

func TestFetchProduct_ReauthenticatesOnceOn401(t *testing.T) {
	fake := &fakeKroger{
		productHandler: func(w http.ResponseWriter, r *http.Request, token string) {
			if token == "token-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"data":{"items":[{"price":{"regular":1.00}}]}}`))
		},
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	res, err := newTestClient(t, server.URL).FetchProduct(context.Background(), "0001111041700", domain.FieldsStore)

	require.NoError(t, err)
	assert.Equal(t, domain.KindDocument, res.Kind)
	assert.Equal(t, int32(2), fake.tokenCalls.Load())
	assert.Equal(t, int32(2), fake.productCalls.Load())
}

func TestFetchProduct_Repeated401IsFatal(t *testing.T) {
	fake := &fakeKroger{
		productHandler: func(w http.ResponseWriter, r *http.Request, token string) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	_, err := newTestClient(t, server.URL).FetchProduct(context.Background(), "0001111041700", domain.FieldsStore)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(2), fake.tokenCalls.Load())
	assert.Equal(t, int32(2), fake.productCalls.Load(), "only one retry after re-authentication")
}

func TestFetchProduct_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind domain.FetchKind
	}{
		{"empty body", http.StatusOK, "", domain.KindEmpty},
		{"not found", http.StatusNotFound, `{"errors":{}}`, domain.KindNotFound},
		{"server error", http.StatusInternalServerError, "", domain.KindHTTPError},
		{"document", http.StatusOK, `{"data":{"items":[]}}`, domain.KindDocument},
		{"bad request document", http.StatusBadRequest, `{"data":{"items":[]}}`, domain.KindDocument},
		{"forbidden document", http.StatusForbidden, `{"errors":{"reason":"scope"}}`, domain.KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeKroger{
				productHandler: func(w http.ResponseWriter, r *http.Request, token string) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				},
			}
			server := httptest.NewServer(fake)
			defer server.Close()

			res, err := newTestClient(t, server.URL).FetchProduct(context.Background(), "0001111041700", domain.FieldsStore)

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind)
		})
	}
}

func TestTokenTTL(t *testing.T) {
	assert.Equal(t, defaultTokenTTL, tokenTTL(0))
	assert.Equal(t, 1770*time.Second, tokenTTL(1800))
	assert.Equal(t, 45*time.Second, tokenTTL(45))
}

func TestProductIDFromURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"https://www.kroger.com/p/kroger-2-reduced-fat-milk/0001111041700", "0001111041700", false},
		{"  https://www.kroger.com/p/bananas/0000000004011?fulfillment=PICKUP ", "0000000004011", false},
		{"https://www.kroger.com/p/", "", true},
		{"not a url", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ProductIDFromURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
