package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"riverbend/portal/internal/constants"
)

// UserClaims is what handlers and middleware know about the caller.
type UserClaims interface {
	UserID() string
	Role() constants.Role
	Email() string
	Source() constants.RequestSource
}

// SessionClaims is the JWT payload of a signed-in session.
type SessionClaims struct {
	jwt.RegisteredClaims
	RoleValue  constants.Role `json:"role"`
	EmailValue string         `json:"email"`

	source constants.RequestSource
}

func (c *SessionClaims) UserID() string                  { return c.Subject }
func (c *SessionClaims) Role() constants.Role            { return c.RoleValue }
func (c *SessionClaims) Email() string                   { return c.EmailValue }
func (c *SessionClaims) Source() constants.RequestSource { return c.source }

// RoleOf returns the caller's role, RolePublic when there is no session.
func RoleOf(claims UserClaims) constants.Role {
	if claims == nil {
		return constants.RolePublic
	}
	return claims.Role()
}
