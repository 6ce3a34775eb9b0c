package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"github.com/hacktoberfest-api/auth-service/internal/provider"
)

func testStrategy(apiBase, tokenURL string) *Strategy {
	return &Strategy{
		cfg: &oauth2.Config{
			ClientID:     "cid",
			ClientSecret: "csecret",
			RedirectURL:  "http://localhost/oauth/github/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: tokenURL + "/authorize", TokenURL: tokenURL + "/token"},
			Scopes:       []string{"user:email"},
		},
		apiBase: apiBase,
	}
}

func TestProfile_PublicEmailPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 7, "login": "octo", "name": "Octo Cat", "email": "octo@example.com",
		})
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	p, err := s.Profile(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.NoError(t, err)
	assert.Equal(t, "github", p.Provider)
	assert.Equal(t, "7", p.ExternalID)
	assert.Equal(t, "Octo Cat", p.DisplayName)
	if assert.Len(t, p.Emails, 1) {
		assert.Equal(t, "octo@example.com", p.Emails[0].Value)
	}
}

func TestProfile_NoPublicEmail_FallsBackToLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 9, "login": "ghost"})
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	p, err := s.Profile(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.NoError(t, err)
	assert.Empty(t, p.Emails)
	// name falls back to login when the profile has none
	assert.Equal(t, "ghost", p.DisplayName)
}

func TestResolveEmail_PicksPrimaryVerified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/emails", r.URL.Path)
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "unverified@example.com", "primary": true, "verified": false},
			{"email": "main@example.com", "primary": true, "verified": true},
		})
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	email, err := s.ResolveEmail(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.NoError(t, err)
	assert.Equal(t, "main@example.com", email)
}

func TestResolveEmail_NoneQualify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"email": "a@example.com", "primary": false, "verified": true},
			{"email": "b@example.com", "primary": true, "verified": false},
		})
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	email, err := s.ResolveEmail(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.NoError(t, err)
	assert.Empty(t, email)
}

func TestResolveEmail_APIErrorIsHandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	_, err := s.ResolveEmail(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.True(t, errors.Is(err, provider.ErrHandshakeFailed), "got %v", err)
}

func TestExchange_ErrorIsHandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
	}))
	defer srv.Close()

	s := testStrategy(srv.URL, srv.URL)
	_, err := s.Exchange(context.Background(), "expired-code")
	assert.True(t, errors.Is(err, provider.ErrHandshakeFailed), "got %v", err)
}

func TestAuthCodeURL_CarriesScopeAndState(t *testing.T) {
	s := testStrategy("http://api", "http://auth")
	u := s.AuthCodeURL("state-123")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "user%3Aemail")
}
