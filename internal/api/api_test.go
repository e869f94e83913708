package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db"
	"riverbend/portal/internal/db/dbtest"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/models/entities"
	"riverbend/portal/internal/services"
)

// brokenCache accepts nothing.
type brokenCache struct{}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenCache) Get(context.Context, string) ([]byte, bool)  { return nil, false }
func (brokenCache) Take(context.Context, string) ([]byte, bool) { return nil, false }
func (brokenCache) Delete(context.Context, string)              {}
func (brokenCache) Close() error                                { return nil }

func TestHealthCheckHandler(t *testing.T) {
	sqlxDB, err := db.SQLX(dbtest.OpenTestDB(t), "sqlite3")
	require.NoError(t, err)

	tests := []struct {
		name      string
		cache     common.CacheInterface
		wantCode  int
		wantCache string
	}{
		{"all up", common.NewCacheService(60, 60), http.StatusOK, entities.HealthOK},
		{"cache down", brokenCache{}, http.StatusServiceUnavailable, entities.HealthDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheckHandler(sqlxDB, tt.cache, time.Now().Add(-time.Minute))(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			var body entities.HealthCheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, entities.HealthOK, body.Components["database"].Status)
			assert.Equal(t, tt.wantCache, body.Components["cache"].Status)
			assert.Equal(t, "1m0s", body.Uptime)
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", services.Validation("Validation failed", map[string]string{"city": "This field is required"}), http.StatusBadRequest, "Validation failed"},
		{"unauthorized", services.Unauthorized(constants.MsgInvalidCredentials), http.StatusUnauthorized, constants.MsgInvalidCredentials},
		{"not found", services.NotFound("Event not found", nil), http.StatusNotFound, "Event not found"},
		{"conflict", services.Conflict(constants.MsgSponsorExists, nil), http.StatusConflict, constants.MsgSponsorExists},
		{"too large", services.TooLarge(constants.MsgUploadTooLarge), http.StatusRequestEntityTooLarge, constants.MsgUploadTooLarge},
		{"internal hides detail", services.Internal(errors.New("pq: relation does not exist")), http.StatusInternalServerError, constants.MsgInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, constants.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, time.Now(), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body dtos.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	big := `{"email":"` + strings.Repeat("a", maxJSONBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(big))
	rec := httptest.NewRecorder()

	var dst dtos.LoginRequest
	assert.False(t, decodeJSON(rec, req, time.Now(), &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"limit=10&offset=20", 10, 20},
		{"limit=5000", 200, 0},
		{"limit=-1&offset=-5", 50, 0},
		{"limit=abc", 50, 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users?"+tt.query, nil)
		page := pageFromQuery(req)
		assert.Equal(t, tt.wantLimit, page.Limit, tt.query)
		assert.Equal(t, tt.wantOffset, page.Offset, tt.query)
	}
}

func TestSessionCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := sessionCookie("tok", exp, true)
	assert.Equal(t, constants.SessionCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	cleared := sessionCookie("", time.Time{}, false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
