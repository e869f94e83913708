package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

// UserLookup loads the account behind a session so deactivation and role
// changes apply to tokens already issued.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*gormModels.User, error)
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(issuer *auth.TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(r, issuer, users)
			if !ok {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware attaches a session when one is present and valid;
// anything else continues as public.
func OptionalAuthMiddleware(issuer *auth.TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := authenticate(r, issuer, users); ok {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, claims *auth.SessionClaims) context.Context {
	noteUser(ctx, claims.UserID())
	return auth.SetUserClaims(ctx, claims)
}

func authenticate(r *http.Request, issuer *auth.TokenIssuer, users UserLookup) (*auth.SessionClaims, bool) {
	token, source := sessionToken(r)
	if token == "" {
		return nil, false
	}

	claims, err := issuer.Parse(token, source)
	if err != nil {
		return nil, false
	}

	user, err := users.GetByID(r.Context(), claims.UserID())
	if err != nil || !user.IsActive || user.AccountType != constants.AccountMember {
		return nil, false
	}
	claims.RoleValue = user.Role
	return claims, true
}

// sessionToken prefers the Authorization header over the session cookie.
func sessionToken(r *http.Request) (string, constants.RequestSource) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), constants.RequestSourceBearer
	}
	if c, err := r.Cookie(constants.SessionCookieName); err == nil && c.Value != "" {
		return c.Value, constants.RequestSourceCookie
	}
	return "", ""
}
