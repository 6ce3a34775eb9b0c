package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hacktoberfest-api/auth-service/internal/config"
	"github.com/hacktoberfest-api/auth-service/internal/models"
	"github.com/hacktoberfest-api/auth-service/internal/sessions"
	"github.com/hacktoberfest-api/auth-service/internal/tokens"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "middleware-test-secret-32-bytes-xx"
	return cfg
}

func protectedRouter(cfg *config.Config, revoked *sessions.RevokedStore) *gin.Engine {
	g := gin.New()
	g.GET("/me", SessionAuth(cfg, revoked), func(c *gin.Context) {
		claims, _ := c.Get("claims")
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	return g
}

func TestSessionAuth_NoHeader(t *testing.T) {
	g := protectedRouter(testConfig(), sessions.NewRevokedStore(nil))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	g := protectedRouter(testConfig(), sessions.NewRevokedStore(nil))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_ValidToken(t *testing.T) {
	cfg := testConfig()
	g := protectedRouter(cfg, sessions.NewRevokedStore(nil))

	tok, err := tokens.Issue(cfg, &models.User{ID: "u1", Email: "u1@example.com"}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "u1@example.com")
}

func TestSessionAuth_RevokedTokenRejected(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	revoked := sessions.NewRevokedStore(client)

	cfg := testConfig()
	g := protectedRouter(cfg, revoked)

	tok, err := tokens.Issue(cfg, &models.User{ID: "u2", Email: "u2@example.com"}, time.Minute)
	require.NoError(t, err)

	require.NoError(t, revoked.Revoke(context.Background(), tok, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
