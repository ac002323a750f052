package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenClaims are the access-token claims the client cares about. The token
// is decoded without signature verification: the server remains the only
// authority, the client just reads expiry and role hints for the UI.
type TokenClaims struct {
	jwt.StandardClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (c *TokenClaims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

func (c *TokenClaims) Expired() bool {
	return c.ExpiresAt > 0 && NowFunc().After(c.Expiry())
}

var NowFunc = time.Now // mockable

// DecodeToken extracts claims from a raw access token without verifying it.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := new(TokenClaims)
	parser := new(jwt.Parser)
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
