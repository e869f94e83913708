package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/metrics"
	gormModels "riverbend/portal/internal/models/gorm"
)

type stubUsers map[string]*gormModels.User

func (s stubUsers) GetByID(_ context.Context, id string) (*gormModels.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(auth.RoleOf(auth.GetUserClaims(r.Context()))))
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	users := stubUsers{
		"u-1": {ID: "u-1", Role: constants.RoleBoardMember, AccountType: constants.AccountMember, IsActive: true},
		"u-2": {ID: "u-2", Role: constants.RoleAdmin, AccountType: constants.AccountMember, IsActive: false},
	}
	// Token says volunteer; the stored role wins.
	active, _, err := issuer.Issue("u-1", constants.RoleVolunteer, "a@riverbend.test")
	require.NoError(t, err)
	inactive, _, err := issuer.Issue("u-2", constants.RoleAdmin, "b@riverbend.test")
	require.NoError(t, err)

	required := AuthMiddleware(issuer, users)(http.HandlerFunc(whoAmI))
	optional := OptionalAuthMiddleware(issuer, users)(http.HandlerFunc(whoAmI))

	cases := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
		wantBody string
		optBody  string
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+active) }, 200, "board_member", "board_member"},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: active})
		}, 200, "board_member", "board_member"},
		{"inactive user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+inactive) }, 401, "", string(constants.RolePublic)},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, 401, "", string(constants.RolePublic)},
		{"none", func(*http.Request) {}, 401, "", string(constants.RolePublic)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			required.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}

			rec = httptest.NewRecorder()
			optional.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.optBody, rec.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := IsBoardMiddleware()(http.HandlerFunc(whoAmI))

	serve := func(role constants.Role) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			claims := &auth.SessionClaims{RoleValue: role}
			req = req.WithContext(auth.SetUserClaims(req.Context(), claims))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusUnauthorized, serve(constants.RoleVolunteer))
	assert.Equal(t, http.StatusOK, serve(constants.RoleBoardMember))
	assert.Equal(t, http.StatusOK, serve(constants.RoleAdmin))
}

func TestRateLimiter_PerIP(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter("apply", 60, 2, m)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1000"))

	clock = clock.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1003"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal.WithLabelValues("apply")))
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(m))
	r.Get("/api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, auth.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/events/{id}", "GET", "418")))
}
