package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiresWithin inspects the unverified exp claim of a JWT and reports
// whether it expires within the given leeway. Signature verification is the
// server's job; the client only reads the claim to refresh proactively
// instead of burning a request on a guaranteed 401.
func tokenExpiresWithin(token string, leeway time.Duration) bool {
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Unparseable tokens are left to the server to reject.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < leeway
}
