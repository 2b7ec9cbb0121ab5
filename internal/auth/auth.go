// Package auth issues and verifies the JWTs that identify players to the
// HTTP API and the websocket endpoint.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gbridge/server/internal/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 4 * time.Hour

// ErrInvalidToken covers expired, malformed, or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload carried by every player token.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the given user.
func IssueToken(secret string, user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token, returning the user it names.
func VerifyToken(secret, token string) (models.User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return models.User{}, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	return models.User{ID: id, Username: claims.Username}, nil
}
