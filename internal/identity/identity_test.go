package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httpclient"
)

func newProviderFixture(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPProvider(HTTPConfig{
		ProviderName: "google",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
		ClientID:     "client",
		ClientSecret: "secret",
	}, httpclient.New(httpclient.DefaultConfig()))
}

func TestHTTPProvider_Exchange(t *testing.T) {
	p := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer"}`))
		case "/userinfo":
			require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"sub":"sub-1","email":"somchai@example.com","name":"Somchai","picture":"https://img.example.com/p.jpg"}`))
		default:
			http.NotFound(w, r)
		}
	})

	profile, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", profile.Subject)
	assert.Equal(t, "somchai@example.com", profile.Email)
	assert.Equal(t, "Somchai", profile.Name)
	assert.Equal(t, "google", p.Name())
}

func TestHTTPProvider_Exchange_RejectedCode(t *testing.T) {
	p := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	_, err := p.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestHTTPProvider_Exchange_MissingSubject(t *testing.T) {
	p := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at-1"}`))
		default:
			_, _ = w.Write([]byte(`{"email":""}`))
		}
	})

	_, err := p.Exchange(context.Background(), "auth-code")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
