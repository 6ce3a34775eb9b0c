package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"

	"github.com/hacktoberfest-api/auth-service/internal/identity"
	oidcint "github.com/hacktoberfest-api/auth-service/internal/oidc"
	"github.com/hacktoberfest-api/auth-service/internal/provider"
)

const (
	providerName = "google"
	issuerURL    = "https://accounts.google.com"
	userinfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Strategy implements the Google provider. The profile is taken from the
// verified id_token when present; the userinfo endpoint covers tokens
// obtained without one.
type Strategy struct {
	cfg      *oauth2.Config
	verifier oidcint.TokenVerifier
	userinfo string
}

// New builds the Google strategy. Discovery runs once at startup; a failure
// here means the provider cannot be offered at all.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Strategy, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	verifier, err := oidcint.NewVerifier(ctx, issuerURL, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc verifier: %w", err)
	}
	return &Strategy{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     googleendpoint.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		verifier: verifier,
		userinfo: userinfoURL,
	}, nil
}

func (s *Strategy) Name() string { return providerName }

func (s *Strategy) AuthCodeURL(state string) string {
	return s.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *Strategy) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: google token exchange: %v", provider.ErrHandshakeFailed, err)
	}
	return token, nil
}

// googleClaims covers both id_token claims and the userinfo payload, which
// share field names.
type googleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (s *Strategy) Profile(ctx context.Context, token *oauth2.Token) (*identity.ExternalProfile, error) {
	var claims googleClaims

	if raw, ok := token.Extra("id_token").(string); ok && raw != "" && s.verifier != nil {
		idToken, err := s.verifier.Verify(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: google id_token verification: %v", provider.ErrHandshakeFailed, err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, fmt.Errorf("%w: google id_token claims: %v", provider.ErrHandshakeFailed, err)
		}
	} else {
		if err := s.fetchUserinfo(ctx, token, &claims); err != nil {
			return nil, err
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: google profile missing subject", provider.ErrHandshakeFailed)
	}

	p := &identity.ExternalProfile{
		Provider:    providerName,
		ExternalID:  claims.Subject,
		DisplayName: claims.Name,
	}
	if claims.Email != "" {
		p.Emails = []identity.Email{{Value: claims.Email, Primary: true, Verified: claims.EmailVerified}}
	}
	return p, nil
}

func (s *Strategy) fetchUserinfo(ctx context.Context, token *oauth2.Token, claims *googleClaims) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfo, nil)
	if err != nil {
		return fmt.Errorf("%w: google userinfo: %v", provider.ErrHandshakeFailed, err)
	}
	token.SetAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: google userinfo: %v", provider.ErrHandshakeFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: google userinfo returned %d", provider.ErrHandshakeFailed, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(claims); err != nil {
		return fmt.Errorf("%w: google userinfo decode: %v", provider.ErrHandshakeFailed, err)
	}
	return nil
}
