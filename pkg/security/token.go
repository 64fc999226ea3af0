package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessScopes are granted when a login request does not ask for
// a specific scope set.
const DefaultAccessScopes = "me:read me:update me:delete post:read post:delete post:create comment:read"

// ErrInvalidToken is returned when an access token fails validation
var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims are the claims carried by an access token
type AccessClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// CreateAccessToken issues a signed HS256 access token for a subject with
// the given scopes and TTL.
func CreateAccessToken(secretKey, subject string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ParseAccessToken validates a token string and returns its claims.
// Expired or otherwise invalid tokens return ErrInvalidToken.
func ParseAccessToken(secretKey, tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SplitScopes parses a space separated scope string
func SplitScopes(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return strings.Fields(DefaultAccessScopes)
	}
	return fields
}

// HasScope reports whether the required scope is present in scopes.
func HasScope(scopes []string, required string) bool {
	for _, s := range scopes {
		if s == required {
			return true
		}
	}
	return false
}
