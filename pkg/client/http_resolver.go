package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
)

// HTTPResolver is the RemoteResolver backed by the status endpoint.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPResolver creates a resolver calling GET {baseURL}/v1/status.
func NewHTTPResolver(baseURL string, httpClient *http.Client) *HTTPResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, accessToken string) (entitlement.Decision, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/v1/status", nil)
	if err != nil {
		return entitlement.NotPremium(), errors.Join(ErrRemoteUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return entitlement.NotPremium(), errors.Join(ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized:
		return entitlement.NotPremium(), ErrUnauthenticated
	default:
		return entitlement.NotPremium(), errors.Join(ErrRemoteUnavailable,
			fmt.Errorf("status endpoint returned %d", resp.StatusCode))
	}

	var decision entitlement.Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return entitlement.NotPremium(), errors.Join(ErrRemoteUnavailable, err)
	}
	return decision, nil
}

var _ RemoteResolver = (*HTTPResolver)(nil)
