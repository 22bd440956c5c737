package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpired reports whether the access token's exp claim is in the
// past (with leeway). The claims are read without signature verification:
// the client cannot verify server keys and only needs a hint for status
// display. A 401 response stays the sole trigger for refresh, so a wrong
// answer here costs nothing.
func AccessTokenExpired(token string, leeway time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(-leeway).After(claims.ExpiresAt.Time)
}
