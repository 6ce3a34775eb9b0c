package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hacktoberfest-api/auth-service/internal/config"
	"github.com/hacktoberfest-api/auth-service/internal/models"
)

// Issue creates a signed session token for the user. The token is stateless:
// nothing is persisted, downstream authorization only verifies the signature
// and expiry.
func Issue(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// Claims is the decoded payload of a session token.
type Claims struct {
	UserID   string
	Email    string
	IssuedAt time.Time
	Expiry   time.Time
}

// Parse verifies signature and expiry of a session token and returns its claims.
func Parse(cfg *config.Config, raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	c := &Claims{}
	c.UserID, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.Expiry = exp.Time
	}
	return c, nil
}
