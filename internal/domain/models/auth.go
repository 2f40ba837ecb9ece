package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the JWT claims the documentation API accepts from
// the identity provider's tokens.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"`  // "authenticated" or "anon"
	Staff                bool   `json:"staff"` // administrative role flag
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}

// Viewer derives the request visibility context from the claims.
func (c *AccessClaims) Viewer() Viewer {
	return Viewer{
		Authenticated: true,
		UserID:        c.Subject,
		Staff:         c.Staff,
	}
}
