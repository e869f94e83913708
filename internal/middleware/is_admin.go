package middleware

import (
	"net/http"
	"time"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
)

// RequireRole lets through sessions whose role ranks at least min. It runs
// after AuthMiddleware.
func RequireRole(min constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := auth.RoleOf(auth.GetUserClaims(r.Context()))
			if !role.AtLeast(min) {
				common.RespondError(w, time.Now(), nil, constants.MsgForbiddenRole, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return RequireRole(constants.RoleAdmin)
}

func IsBoardMiddleware() func(http.Handler) http.Handler {
	return RequireRole(constants.RoleBoardMember)
}
