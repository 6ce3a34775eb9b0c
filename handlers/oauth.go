package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hacktoberfest-api/auth-service/internal/config"
	"github.com/hacktoberfest-api/auth-service/internal/provider"
	"github.com/hacktoberfest-api/auth-service/internal/sessions"
	"github.com/hacktoberfest-api/auth-service/internal/state"
	"github.com/hacktoberfest-api/auth-service/internal/tokens"
	"github.com/hacktoberfest-api/auth-service/internal/users"
	"github.com/hacktoberfest-api/auth-service/pkg/logger"
	"github.com/hacktoberfest-api/auth-service/pkg/metrics"
)

const stateTTL = 10 * time.Minute

// OAuthHandler holds dependencies
type OAuthHandler struct {
	cfg      *config.Config
	registry *provider.Registry
	auth     *provider.Authenticator
	states   state.Store
	revoked  *sessions.RevokedStore
	usersSvc *users.Service
}

func NewOAuthHandler(cfg *config.Config, registry *provider.Registry, auth *provider.Authenticator, states state.Store, revoked *sessions.RevokedStore, u *users.Service) *OAuthHandler {
	return &OAuthHandler{cfg: cfg, registry: registry, auth: auth, states: states, revoked: revoked, usersSvc: u}
}

// Register routes
func (h *OAuthHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/oauth/:provider", h.Login)
	rg.GET("/oauth/:provider/callback", h.Callback)
	rg.POST("/auth/logout", h.Logout)
}

// userResponse is the only user shape that crosses to clients. An explicit
// struct rather than the model itself, so fields added to User later cannot
// leak into responses.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login redirects the client to the provider's authorization page with a
// fresh single-use state value.
func (h *OAuthHandler) Login(c *gin.Context) {
	name := c.Param("provider")
	s, err := h.registry.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Unknown provider"})
		return
	}

	st, err := state.NewState()
	if err != nil {
		logger.Errorf("oauth login: state generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Authentication failed"})
		return
	}
	if err := h.states.Save(c.Request.Context(), st, stateTTL); err != nil {
		logger.Errorf("oauth login: state save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Authentication failed"})
		return
	}

	c.Redirect(http.StatusFound, s.AuthCodeURL(st))
}

// Callback completes the handshake: state validation, code exchange, profile
// fetch, directory resolution, token issuance. Every failure (bad state,
// provider outage, no verified email) produces the same generic response so
// clients cannot probe which step rejected them; specifics go to the log and
// the per-outcome metric only.
func (h *OAuthHandler) Callback(c *gin.Context) {
	name := c.Param("provider")
	s, err := h.registry.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Unknown provider"})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.fail(c, name, "handshake_failed", "provider returned error=%q", errParam)
		return
	}

	st := c.Query("state")
	if st == "" {
		h.fail(c, name, "invalid_state", "callback without state")
		return
	}
	ok, err := h.states.Consume(c.Request.Context(), st)
	if err != nil {
		h.fail(c, name, "invalid_state", "state lookup failed: %v", err)
		return
	}
	if !ok {
		h.fail(c, name, "invalid_state", "unknown or replayed state")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.fail(c, name, "handshake_failed", "callback without code")
		return
	}

	// One deadline covers the exchange, the profile fetch and the email
	// resolver; nothing in this flow may block past it.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.OAuth.HandshakeTimeout)
	defer cancel()

	token, err := s.Exchange(ctx, code)
	if err != nil {
		h.fail(c, name, "handshake_failed", "code exchange: %v", err)
		return
	}

	profile, err := s.Profile(ctx, token)
	if err != nil {
		h.fail(c, name, "handshake_failed", "profile fetch: %v", err)
		return
	}

	user, isNew, err := h.auth.Verify(ctx, s, token, profile)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrNoVerifiedEmail):
			h.fail(c, name, "no_verified_email", "account has no verified email")
		case errors.Is(err, provider.ErrHandshakeFailed):
			h.fail(c, name, "handshake_failed", "verification: %v", err)
		default:
			h.fail(c, name, "directory_error", "directory: %v", err)
		}
		return
	}

	sessionToken, err := tokens.Issue(h.cfg, user, h.cfg.JWT.SessionTokenTTL)
	if err != nil {
		logger.Errorf("oauth callback (%s): token issuance: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Authentication failed"})
		return
	}

	metrics.LoginAttempts.WithLabelValues(name, "success").Inc()
	if isNew {
		metrics.UsersCreated.WithLabelValues(name).Inc()
		logger.Infof("oauth callback (%s): created user id=%s", name, user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   sessionToken,
		"user":    userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Logout revokes the presented session token for its remaining lifetime.
func (h *OAuthHandler) Logout(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	var raw string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &raw); n != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing session token"})
		return
	}
	claims, err := tokens.Parse(h.cfg, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid session token"})
		return
	}
	if ttl := time.Until(claims.Expiry); ttl > 0 {
		if err := h.revoked.Revoke(c.Request.Context(), raw, ttl); err != nil {
			logger.Errorf("logout: revoke failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Logout failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// fail logs the real cause server-side and answers with the uniform failure
// shape. The outcome label is for metrics only and never reaches the client.
func (h *OAuthHandler) fail(c *gin.Context, providerName, outcome, format string, args ...interface{}) {
	metrics.LoginAttempts.WithLabelValues(providerName, outcome).Inc()
	logger.Warnf("oauth callback (%s): "+format, append([]interface{}{providerName}, args...)...)
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Authentication failed"})
}
