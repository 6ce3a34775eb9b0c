package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"

	"github.com/hacktoberfest-api/auth-service/internal/identity"
	"github.com/hacktoberfest-api/auth-service/internal/provider"
)

const (
	providerName   = "github"
	defaultAPIBase = "https://api.github.com"
	acceptHeader   = "application/vnd.github+json"
)

// Strategy implements the GitHub provider. GitHub profiles only expose the
// public email, which users commonly leave unset, so the strategy also
// implements the email-resolver fallback against /user/emails.
type Strategy struct {
	cfg     *oauth2.Config
	apiBase string
}

func New(clientID, clientSecret, redirectURL string) (*Strategy, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}
	return &Strategy{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githubendpoint.Endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBase: defaultAPIBase,
	}, nil
}

func (s *Strategy) Name() string { return providerName }

func (s *Strategy) AuthCodeURL(state string) string {
	return s.cfg.AuthCodeURL(state)
}

func (s *Strategy) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: github token exchange: %v", provider.ErrHandshakeFailed, err)
	}
	return token, nil
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Strategy) Profile(ctx context.Context, token *oauth2.Token) (*identity.ExternalProfile, error) {
	var gu githubUser
	if err := s.get(ctx, token, "/user", &gu); err != nil {
		return nil, err
	}
	if gu.ID == 0 {
		return nil, fmt.Errorf("%w: github profile missing id", provider.ErrHandshakeFailed)
	}

	name := gu.Name
	if name == "" {
		name = gu.Login
	}
	p := &identity.ExternalProfile{
		Provider:    providerName,
		ExternalID:  fmt.Sprintf("%d", gu.ID),
		DisplayName: name,
	}
	// Public email is often unset; the list stays empty then and the
	// authenticator falls back to ResolveEmail.
	if gu.Email != "" {
		p.Emails = []identity.Email{{Value: gu.Email, Primary: true}}
	}
	return p, nil
}

// ResolveEmail queries /user/emails and returns the primary verified address,
// or "" when no entry is both primary and verified. One call, no retries: a
// transient failure surfaces to the caller as a handshake failure and the
// user retries by logging in again.
func (s *Strategy) ResolveEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	var emails []identity.Email
	if err := s.get(ctx, token, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Value, nil
		}
	}
	return "", nil
}

func (s *Strategy) get(ctx context.Context, token *oauth2.Token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("%w: github api: %v", provider.ErrHandshakeFailed, err)
	}
	req.Header.Set("Accept", acceptHeader)
	token.SetAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: github api %s: %v", provider.ErrHandshakeFailed, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: github api %s returned %d", provider.ErrHandshakeFailed, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: github api %s decode: %v", provider.ErrHandshakeFailed, path, err)
	}
	return nil
}
