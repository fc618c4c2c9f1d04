package httpx

import (
	"fmt"
	"net/http"

	"collection_finder/pkg/contextx"
)

const bearerPrefix = "Bearer "

// AuthBearerRoundTripper authorizes outgoing requests with the token carried
// in the request context (see contextx.WithBearerToken).
type AuthBearerRoundTripper struct {
	next http.RoundTripper
}

func NewAuthBearerRoundTripper(next http.RoundTripper) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next: next,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := contextx.BearerTokenFromContext(req.Context())
	if err != nil {
		return nil, fmt.Errorf("contextx.BearerTokenFromContext: %w", err)
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", bearerPrefix+string(token))

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}

// NormalizeBearerToken strips whitespace and pasted "Bearer" prefixes.
func NormalizeBearerToken(raw string) string {
	return string(contextx.BearerToken(raw).Normalize())
}
