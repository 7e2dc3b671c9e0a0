package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httpclient"
)

// Profile is the federated identity returned by the provider after a
// successful code exchange.
type Profile struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider exchanges an authorization code for the holder's profile. The
// provider is injected into the auth flow; the service never talks to the
// identity endpoint directly.
type Provider interface {
	// Name returns the provider identifier persisted alongside the subject.
	Name() string

	// Exchange redeems the authorization code for the account profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// HTTPConfig holds connection settings for an OAuth-style identity provider.
type HTTPConfig struct {
	ProviderName string
	TokenURL     string
	UserInfoURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// HTTPProvider implements Provider over the standard two-step exchange:
// redeem the code at the token endpoint, then fetch the user info.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *httpclient.Client
}

// NewHTTPProvider creates an identity provider client.
func NewHTTPProvider(cfg HTTPConfig, client *httpclient.Client) *HTTPProvider {
	return &HTTPProvider{cfg: cfg, client: client}
}

func (p *HTTPProvider) Name() string {
	return p.cfg.ProviderName
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userInfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *HTTPProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.redeemCode(ctx, code)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Upstream("identity provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "identity provider")
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, apperrors.Upstream("identity provider",
			fmt.Errorf("userinfo missing subject or email"))
	}

	return &Profile{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

func (p *HTTPProvider) redeemCode(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"client_id":     p.cfg.ClientID,
		"client_secret": p.cfg.ClientSecret,
		"redirect_uri":  p.cfg.RedirectURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	resp, err := p.client.Post(ctx, p.cfg.TokenURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Upstream("identity provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return "", apperrors.Unauthorized("authorization code was rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, "identity provider")
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", apperrors.Upstream("identity provider",
			fmt.Errorf("token response missing access_token"))
	}

	return body.AccessToken, nil
}
