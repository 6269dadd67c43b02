package ghsnap

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/allthrive/pageforge/pkg/tokenstore"
)

const (
	installationTokenKey = "github_installation_token"
	// Installation tokens last an hour; refresh early.
	installationTokenTTL = 55 * time.Minute
)

// AppAuth mints GitHub App installation tokens, caching them in a
// token store between calls.
type AppAuth struct {
	appID          int64
	installationID int64
	privateKey     *rsa.PrivateKey
	apiBase        string
	tokens         tokenstore.Store
	httpClient     *http.Client
	logger         zerolog.Logger
}

// NewAppAuth reads the App private key from privateKeyPath.
func NewAppAuth(appID, installationID int64, privateKeyPath string, tokens tokenstore.Store, logger zerolog.Logger) (*AppAuth, error) {
	keyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	return NewAppAuthFromKeyBytes(appID, installationID, keyData, tokens, logger)
}

// NewAppAuthFromKeyBytes builds an AppAuth from PEM key bytes (useful for testing).
func NewAppAuthFromKeyBytes(appID, installationID int64, keyData []byte, tokens tokenstore.Store, logger zerolog.Logger) (*AppAuth, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &AppAuth{
		appID:          appID,
		installationID: installationID,
		privateKey:     key,
		apiBase:        "https://api.github.com",
		tokens:         tokens,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		logger:         logger.With().Str("component", "ghsnap_app").Logger(),
	}, nil
}

// generateJWT creates a short-lived JWT for GitHub App authentication.
func (a *AppAuth) generateJWT() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		Issuer:    fmt.Sprintf("%d", a.appID),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing JWT: %w", err)
	}
	return signed, nil
}

type installationTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InstallationToken returns a cached or freshly minted installation token.
func (a *AppAuth) InstallationToken(ctx context.Context) (string, error) {
	tok, fresh, err := tokenstore.Fetch(ctx, a.tokens, installationTokenKey, installationTokenTTL, a.mintInstallationToken)
	if tok == nil {
		return "", err
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to cache installation token")
	}
	if fresh {
		a.logger.Info().Dur("ttl", installationTokenTTL).Msg("minted new installation token")
	} else {
		a.logger.Debug().Dur("ttl_remaining", tok.TTLRemaining()).Msg("using cached installation token")
	}
	return tok.Value, nil
}

func (a *AppAuth) mintInstallationToken(ctx context.Context) (string, error) {
	jwtToken, err := a.generateJWT()
	if err != nil {
		return "", fmt.Errorf("generating JWT: %w", err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.apiBase, a.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+jwtToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting installation token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("installation token request failed (status %d): %s", resp.StatusCode, body)
	}

	var tokenResp installationTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	return tokenResp.Token, nil
}

type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("Authorization", "token "+t.token)
	return t.base.RoundTrip(req2)
}
