package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// GoogleConfig holds configuration for the Google token verifier.
type GoogleConfig struct {
	// UserinfoURL is overridable for tests; the default is Google's v2 endpoint.
	UserinfoURL  string `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`
	VerifiedOnly bool   `env:"GOOGLE_VERIFIED_ONLY" envDefault:"true"`
}

// GoogleVerifier validates Google OAuth access tokens by calling the
// userinfo endpoint. The browser extension obtains the token through
// chrome.identity; the backend only ever sees the bearer token, never the
// OAuth code exchange.
type GoogleVerifier struct {
	config     GoogleConfig
	httpClient *http.Client
}

// NewGoogleVerifier creates a verifier against Google's userinfo endpoint.
func NewGoogleVerifier(cfg GoogleConfig) *GoogleVerifier {
	if cfg.UserinfoURL == "" {
		cfg.UserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	}
	return &GoogleVerifier{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type gUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Verify resolves the access token to the Google account it was issued for.
func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	if accessToken == "" {
		return Identity{}, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.UserinfoURL, nil)
	if err != nil {
		return Identity{}, errors.Join(ErrProviderUnavailable, err)
	}
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Identity{}, errors.Join(ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrUnauthenticated
	default:
		return Identity{}, errors.Join(ErrProviderUnavailable,
			fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode))
	}

	var user gUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, errors.Join(ErrProviderUnavailable, err)
	}
	if user.Email == "" {
		return Identity{}, ErrUnauthenticated
	}
	if v.config.VerifiedOnly && !user.VerifiedEmail {
		return Identity{}, ErrUnauthenticated
	}

	return Identity{
		Subject:       user.ID,
		Email:         user.Email,
		EmailVerified: user.VerifiedEmail,
		Name:          user.Name,
	}, nil
}

var _ TokenVerifier = (*GoogleVerifier)(nil)
