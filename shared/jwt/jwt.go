package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/whimsyboard/whimsy/shared/domain"
)

// ErrNotJWT is returned for opaque tokens. Callers treat those as valid
// until the API says otherwise.
var ErrNotJWT = errors.New("token is not a jwt")

// Claims is what the frontend reads from an API-issued token.
type Claims struct {
	User      domain.User
	ExpiresAt time.Time // zero when the token carries no exp
}

// Expired reports whether the token's exp is at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect parses a token without verifying its signature. The signing key
// belongs to the API; the result is only used for expiry and display.
func Inspect(tokenString string) (Claims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return Claims{}, ErrNotJWT
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	var out Claims
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}

	out.User.Id = firstString(claims, "id", "userId", "_id", "sub")
	out.User.Email = firstString(claims, "email")
	return out, nil
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
