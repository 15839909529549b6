package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joed123/GoogleCloudCourseManager/config"
)

// ErrLoginRejected is returned when the identity provider rejects the
// supplied credentials.
var ErrLoginRejected = errors.New("login rejected by identity provider")

// TokenResponse represents the identity provider's token endpoint response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenExchanger exchanges resource-owner credentials for an access
// token via the tenant's OAuth token endpoint.
type TokenExchanger struct {
	cfg        config.Auth0Config
	tokenURL   string
	httpClient *http.Client
}

// NewTokenExchanger creates a new token exchanger
func NewTokenExchanger(cfg config.Auth0Config) *TokenExchanger {
	return &TokenExchanger{
		cfg:      cfg,
		tokenURL: cfg.TokenURL(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ExchangeCredentials performs the password grant against the tenant's
// token endpoint. Any non-200 response maps to ErrLoginRejected; the
// caller surfaces it uniformly as unauthorized.
func (e *TokenExchanger) ExchangeCredentials(ctx context.Context, username, password string) (string, error) {
	if e.cfg.Domain == "" || e.cfg.ClientID == "" {
		return "", fmt.Errorf("identity provider not configured")
	}

	payload := map[string]string{
		"grant_type":    "password",
		"username":      username,
		"password":      password,
		"audience":      e.cfg.Audience,
		"client_id":     e.cfg.ClientID,
		"client_secret": e.cfg.ClientSecret,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrLoginRejected, resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access_token in response")
	}

	return tokenResp.AccessToken, nil
}
