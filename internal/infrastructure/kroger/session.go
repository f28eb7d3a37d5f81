package kroger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shelfprice/collector/internal/domain"
	"go.uber.org/zap"
)

const (
	tokenPath = "/v1/connect/oauth2/token"
	tokenKey  = "kroger:access_token"

	// defaultTokenTTL applies when the token response omits expires_in
	defaultTokenTTL = 30 * time.Minute
	// tokenExpirySlack renews a little before the server-side expiry
	tokenExpirySlack = 30 * time.Second
)

// tokenResponse is the body of a successful client-credentials grant
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// EncodeCredentials builds the Basic auth credential base64(client_id:client_secret)
func EncodeCredentials(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}

// Session owns the OAuth state for one Kroger client. It is Authenticated
// while its token store holds an unexpired token and Unauthenticated otherwise.
type Session struct {
	http        *resty.Client
	credentials string
	scope       string
	tokens      domain.TokenStore
	logger      *zap.Logger
}

// NewSession creates an unauthenticated session
func NewSession(httpClient *resty.Client, credentials, scope string, tokens domain.TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		http:        httpClient,
		credentials: credentials,
		scope:       scope,
		tokens:      tokens,
		logger:      logger,
	}
}

// Authenticated reports whether a usable token is held
func (s *Session) Authenticated(ctx context.Context) bool {
	ok, err := s.tokens.Exists(ctx, tokenKey)
	return err == nil && ok
}

// Token returns the current access token, acquiring one when unauthenticated
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.tokens.Get(ctx, tokenKey)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrTokenMiss) {
		return "", fmt.Errorf("failed to read token store: %w", err)
	}
	return s.Authenticate(ctx)
}

// Authenticate requests a new access token with the client-credentials grant.
// Any failure wraps domain.ErrAuthFailed and is fatal for the run.
func (s *Session) Authenticate(ctx context.Context) (string, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+s.credentials).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      s.scope,
		}).
		Post(tokenPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrAuthFailed, resp.StatusCode(), resp.String())
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", domain.ErrAuthFailed, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: response carried no access_token", domain.ErrAuthFailed)
	}

	if err := s.tokens.Set(ctx, tokenKey, body.AccessToken, tokenTTL(body.ExpiresIn)); err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}

	s.logger.Info("access token received", zap.Int("expires_in", body.ExpiresIn))
	return body.AccessToken, nil
}

// Invalidate drops the held token, returning the session to Unauthenticated
func (s *Session) Invalidate(ctx context.Context) error {
	return s.tokens.Delete(ctx, tokenKey)
}

func tokenTTL(expiresIn int) time.Duration {
	if expiresIn <= 0 {
		return defaultTokenTTL
	}
	ttl := time.Duration(expiresIn) * time.Second
	if ttl > 2*tokenExpirySlack {
		ttl -= tokenExpirySlack
	}
	return ttl
}
