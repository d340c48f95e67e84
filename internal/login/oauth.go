package login

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"guardpost/internal/identity"
	dErrors "guardpost/pkg/domain-errors"
)

// OAuthClient talks to the Discord OAuth endpoints: authorization code
// exchange and the identity lookup behind the resulting bearer token.
type OAuthClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURI  string
	timeout      time.Duration
	httpClient   *http.Client
}

// OAuthConfig carries the registered application credentials.
type OAuthConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// NewOAuthClient creates an OAuthClient from the application credentials.
func NewOAuthClient(cfg OAuthConfig, opts ...OAuthOption) *OAuthClient {
	c := &OAuthClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		timeout:      cfg.Timeout,
		httpClient:   http.DefaultClient,
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OAuthOption configures optional OAuthClient dependencies.
type OAuthOption func(*OAuthClient)

// WithOAuthHTTPClient overrides the HTTP client used for OAuth calls.
func WithOAuthHTTPClient(hc *http.Client) OAuthOption {
	return func(c *OAuthClient) {
		c.httpClient = hc
	}
}

// Configured reports whether the application credentials needed for the
// login flow are present.
func (c *OAuthClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != "" && c.redirectURI != ""
}

// AuthorizeURL builds the authorization redirect target carrying the signed
// state.
func (c *OAuthClient) AuthorizeURL(state string) string {
	q := url.Values{
		"client_id":     {c.clientID},
		"redirect_uri":  {c.redirectURI},
		"response_type": {"code"},
		"scope":         {"identify"},
		"state":         {state},
	}
	return c.baseURL + "/oauth2/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Exchange trades an authorization code for an access token.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "token exchange failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", dErrors.New(dErrors.CodeUnauthorized,
			fmt.Sprintf("token endpoint returned %d", resp.StatusCode))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "decoding token response")
	}
	if token.AccessToken == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token response carried no access token")
	}
	return token.AccessToken, nil
}

// FetchIdentity resolves the identity behind an access token via the
// current-user endpoint.
func (c *OAuthClient) FetchIdentity(ctx context.Context, accessToken string) (identity.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/@me", nil)
	if err != nil {
		return identity.Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "building identity request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Identity{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity lookup failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return identity.Identity{}, dErrors.New(dErrors.CodeUnauthorized,
			fmt.Sprintf("identity endpoint returned %d", resp.StatusCode))
	}

	var id identity.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return identity.Identity{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "decoding identity response")
	}
	if id.ID == "" {
		return identity.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "identity response carried no id")
	}
	return id, nil
}
