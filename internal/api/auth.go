package api

import (
	"net/http"
	"time"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

func sessionCookie(value string, expires time.Time, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.Expires = expires
	}
	return c
}

// RegisterHandler handles POST /api/auth/register
//
// Volunteer self-registration. The account cannot sign in until the email
// is verified.
func RegisterHandler(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.RegisterRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		user, err := authSvc.Register(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Registered. Check your email to verify your address", user, http.StatusCreated)
	}
}

// LoginHandler handles POST /api/auth/login
//
// Returns the session token and also sets it as an HttpOnly cookie for the
// browser portal.
func LoginHandler(authSvc *services.AuthService, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.LoginRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		session, err := authSvc.Login(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		http.SetCookie(w, sessionCookie(session.Token, session.ExpiresAt, secureCookie))
		common.RespondSuccess(w, initTime, "Signed in", session)
	}
}

// LogoutHandler handles POST /api/auth/logout
func LogoutHandler(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		http.SetCookie(w, sessionCookie("", time.Time{}, secureCookie))
		common.RespondSuccess(w, initTime, "Signed out", nil)
	}
}

// VerifyEmailHandler handles POST /api/auth/verify-email
func VerifyEmailHandler(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.VerifyEmailRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		if err := authSvc.VerifyEmail(r.Context(), req); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Email verified", nil)
	}
}

// ForgotPasswordHandler handles POST /api/auth/forgot-password
//
// Always answers 200 so the endpoint cannot be used to probe for accounts.
func ForgotPasswordHandler(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ForgotPasswordRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		if err := authSvc.ForgotPassword(r.Context(), req); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "If that account exists, a reset link is on its way", nil)
	}
}

// ResetPasswordHandler handles POST /api/auth/reset-password
func ResetPasswordHandler(authSvc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ResetPasswordRequest
		if !decodeJSON(w, r, initTime, &req) {
			return
		}

		if err := authSvc.ResetPassword(r.Context(), req); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Password updated", nil)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) Register() http.HandlerFunc {
	return RegisterHandler(h.deps.Services.Auth)
}

func (h *Handlers) Login() http.HandlerFunc {
	return LoginHandler(h.deps.Services.Auth, h.deps.Config.IsProduction())
}

func (h *Handlers) Logout() http.HandlerFunc {
	return LogoutHandler(h.deps.Config.IsProduction())
}

func (h *Handlers) VerifyEmail() http.HandlerFunc {
	return VerifyEmailHandler(h.deps.Services.Auth)
}

func (h *Handlers) ForgotPassword() http.HandlerFunc {
	return ForgotPasswordHandler(h.deps.Services.Auth)
}

func (h *Handlers) ResetPassword() http.HandlerFunc {
	return ResetPasswordHandler(h.deps.Services.Auth)
}
