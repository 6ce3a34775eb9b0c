package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	oidcint "github.com/hacktoberfest-api/auth-service/internal/oidc"
	"github.com/hacktoberfest-api/auth-service/internal/provider"
)

func fakeIDToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	b, err := json.Marshal(claims)
	assert.NoError(t, err)
	return "hdr." + base64.RawURLEncoding.EncodeToString(b) + ".sig"
}

func TestProfile_FromIDToken(t *testing.T) {
	s := &Strategy{verifier: oidcint.NewInsecureVerifier()}

	idt := fakeIDToken(t, map[string]interface{}{
		"sub": "g-sub-1", "email": "u@example.com", "email_verified": true, "name": "U Ser",
	})
	tok := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]interface{}{"id_token": idt})

	p, err := s.Profile(context.Background(), tok)
	assert.NoError(t, err)
	assert.Equal(t, "google", p.Provider)
	assert.Equal(t, "g-sub-1", p.ExternalID)
	assert.Equal(t, "U Ser", p.DisplayName)
	if assert.Len(t, p.Emails, 1) {
		assert.Equal(t, "u@example.com", p.Emails[0].Value)
		assert.True(t, p.Emails[0].Verified)
	}
}

func TestProfile_FromUserinfoWhenNoIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sub": "g-sub-2", "email": "info@example.com", "email_verified": true, "name": "Info User",
		})
	}))
	defer srv.Close()

	s := &Strategy{userinfo: srv.URL}
	p, err := s.Profile(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.NoError(t, err)
	assert.Equal(t, "g-sub-2", p.ExternalID)
	if assert.Len(t, p.Emails, 1) {
		assert.Equal(t, "info@example.com", p.Emails[0].Value)
	}
}

func TestProfile_MissingSubjectFails(t *testing.T) {
	s := &Strategy{verifier: oidcint.NewInsecureVerifier()}
	idt := fakeIDToken(t, map[string]interface{}{"email": "nobody@example.com"})
	tok := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]interface{}{"id_token": idt})

	_, err := s.Profile(context.Background(), tok)
	assert.True(t, errors.Is(err, provider.ErrHandshakeFailed), "got %v", err)
}

func TestProfile_UserinfoErrorIsHandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := &Strategy{userinfo: srv.URL}
	_, err := s.Profile(context.Background(), &oauth2.Token{AccessToken: "at"})
	assert.True(t, errors.Is(err, provider.ErrHandshakeFailed), "got %v", err)
}

func TestProfile_NoEmailInClaims(t *testing.T) {
	s := &Strategy{verifier: oidcint.NewInsecureVerifier()}
	idt := fakeIDToken(t, map[string]interface{}{"sub": "g-sub-3", "name": "No Mail"})
	tok := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]interface{}{"id_token": idt})

	p, err := s.Profile(context.Background(), tok)
	assert.NoError(t, err)
	assert.Empty(t, p.Emails)
}
