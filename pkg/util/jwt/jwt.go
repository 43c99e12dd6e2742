// Package jwt validates access tokens issued by the account service.
// Token issuance lives outside this service; we only parse and verify.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

var cfg *jwtConfig

// Init stores the shared signing secret. Call once at startup.
func Init(secret string, accessExpiryMinutes int) {
	cfg = &jwtConfig{
		Secret:            secret,
		AccessTokenExpiry: time.Duration(accessExpiryMinutes) * time.Minute,
	}
}

// Claims carries the authenticated user id.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken mints a short-lived access token. Used by tests and
// local tooling; production tokens come from the account service with the
// same secret and claim shape.
func GenerateAccessToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vega_social",
			Subject:   "access_token",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken parses and verifies a token string.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
