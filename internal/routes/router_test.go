package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbend/portal/internal/api"
	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/config"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db"
	"riverbend/portal/internal/db/dbtest"
	"riverbend/portal/internal/metrics"
	gormModels "riverbend/portal/internal/models/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []common.EmailMessage
}

func (m *recordingMailer) Send(_ context.Context, msg common.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	handler http.Handler
	deps    *api.Dependencies
	mailer  *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the config before wiring.
func newTestServerWith(t *testing.T, configure func(*config.Config)) *testServer {
	t.Helper()

	gdb := dbtest.OpenTestDB(t)
	sqlxDB, err := db.SQLX(gdb, "sqlite3")
	require.NoError(t, err)

	storage, err := common.NewLocalStorage(t.TempDir(), "https://riverbend.test/uploads")
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:           "test",
		BaseURL:          "https://riverbend.test",
		JWTSecret:        "router-test-secret",
		JWTTTL:           time.Hour,
		AdminNotifyEmail: "admin@riverbend.test",
		UploadMaxBytes:   1 << 20,
		CORSOrigins:      []string{"https://riverbend.test"},
		Payment: config.PaymentConfig{
			PayableTo:      "Riverbend Community Fund",
			MailingAddress: "PO Box 1, Riverbend",
			OnlineURL:      "https://riverbend.test/donate",
		},
	}

	if configure != nil {
		configure(cfg)
	}

	reg := prometheus.NewRegistry()
	mailer := &recordingMailer{}
	deps, err := api.NewDependencies(cfg, gdb, sqlxDB, common.NewCacheService(300, 600), mailer, storage, metrics.NewMetricsRegistry(reg))
	require.NoError(t, err)

	return &testServer{
		handler: RegisterRoutes(deps, reg, time.Now()),
		deps:    deps,
		mailer:  mailer,
	}
}

// member inserts an active, verified member and returns a session token.
func (s *testServer) member(t *testing.T, email string, role constants.Role) (*gormModels.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	verified := time.Now().UTC()
	user := &gormModels.User{
		Email:           email,
		PasswordHash:    &hash,
		FirstName:       "Test",
		LastName:        "Member",
		Role:            role,
		AccountType:     constants.AccountMember,
		IsActive:        true,
		EmailVerifiedAt: &verified,
	}
	require.NoError(t, s.deps.Repo.User.Create(context.Background(), user))

	token, _, err := s.deps.Tokens.Issue(user.ID, role, email)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeaders(t, method, path, token, body, nil)
}

func (s *testServer) doWithHeaders(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func acme() map[string]string {
	return map[string]string{
		"tier":          "gold",
		"companyName":   "Acme Corp",
		"contactName":   "Jane Doe",
		"contactEmail":  "jane@acme.example",
		"contactPhone":  "555-0100",
		"streetAddress": "1 Main St",
		"city":          "Riverbend",
		"state":         "CA",
		"zipCode":       "90001",
	}
}

func TestSponsorApply_SucceedsThenConflicts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sponsor/apply", "", acme())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["sponsorId"])
	instructions, ok := body["paymentInstructions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gold", instructions["tier"])
	assert.Equal(t, "Riverbend Community Fund", instructions["payableTo"])

	var users, sponsors int64
	require.NoError(t, s.deps.DB.Model(&gormModels.User{}).Count(&users).Error)
	require.NoError(t, s.deps.DB.Model(&gormModels.Sponsor{}).Count(&sponsors).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), sponsors)

	rec = s.do(t, http.MethodPost, "/api/sponsor/apply", "", acme())
	require.Equal(t, http.StatusConflict, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, constants.MsgSponsorExists, body["error"])

	require.NoError(t, s.deps.DB.Model(&gormModels.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestSponsorApply_StaysOffWallUntilActivated(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.member(t, "admin@riverbend.test", constants.RoleAdmin)

	form := acme()
	form["companyName"] = "Spam LLC"
	form["website"] = "https://spam.example"
	rec := s.do(t, http.MethodPost, "/api/sponsor/apply", "", form)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sponsorID := decode(t, rec)["sponsorId"].(string)

	wall := func() []any {
		rec := s.do(t, http.MethodGet, "/api/sponsors", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data, _ := decode(t, rec)["data"].([]any)
		return data
	}
	assert.Empty(t, wall())

	rec = s.do(t, http.MethodPut, "/api/admin/sponsors/"+sponsorID, admin, map[string]any{
		"status":      "active",
		"totalAmount": "5000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listed := wall()
	require.Len(t, listed, 1)
	entry := listed[0].(map[string]any)
	assert.Equal(t, "Spam LLC", entry["name"])
	assert.Equal(t, "gold", entry["tier"])
}

func TestSponsorApply_ValidationNamesFields(t *testing.T) {
	s := newTestServer(t)

	form := acme()
	form["contactEmail"] = "not-an-email"
	form["zipCode"] = " "
	rec := s.do(t, http.MethodPost, "/api/sponsor/apply", "", form)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields, ok := decode(t, rec)["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "contactEmail")
	assert.Contains(t, fields, "zipCode")

	rec = s.do(t, http.MethodPost, "/api/sponsor/apply", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSponsorApply_RateLimited(t *testing.T) {
	s := newTestServer(t)

	form := acme()
	form["contactEmail"] = "bad"
	var last int
	for i := 0; i < 6; i++ {
		last = s.do(t, http.MethodPost, "/api/sponsor/apply", "", form).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLogin_RateLimitIgnoresForwardedFor(t *testing.T) {
	login := map[string]any{"email": "nobody@riverbend.test", "password": "wrong-password"}

	countLimited := func(t *testing.T, s *testServer) int {
		limited := 0
		for i := 0; i < 30; i++ {
			rec := s.doWithHeaders(t, http.MethodPost, "/api/auth/login", "", login, map[string]string{
				"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i),
				"X-Real-IP":       fmt.Sprintf("10.0.1.%d", i),
			})
			if rec.Code == http.StatusTooManyRequests {
				limited++
			}
		}
		return limited
	}

	t.Run("direct", func(t *testing.T) {
		// Same socket address every time; rotating headers must not mint new buckets.
		assert.Equal(t, 25, countLimited(t, newTestServer(t)))
	})

	t.Run("trusted proxy", func(t *testing.T) {
		s := newTestServerWith(t, func(cfg *config.Config) { cfg.TrustProxyHeaders = true })
		assert.Zero(t, countLimited(t, s))
	})
}

func TestValidateStep(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sponsor/apply/validate", "", map[string]any{
		"step": "contact_info",
		"form": acme(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, "address", data["nextStep"])
	assert.Equal(t, "tier_selection", data["prevStep"])

	rec = s.do(t, http.MethodPost, "/api/sponsor/apply/validate", "", map[string]any{"step": "payment"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	_, volunteer := s.member(t, "vol@riverbend.test", constants.RoleVolunteer)
	_, admin := s.member(t, "admin@riverbend.test", constants.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/me", "garbage", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/me", volunteer, nil).Code)

	rec := s.do(t, http.MethodGet, "/api/admin/stats", volunteer, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, constants.MsgForbiddenRole, decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	users := decode(t, rec)["data"].(map[string]any)["users"].(map[string]any)
	assert.Equal(t, 1.0, users["admin"])
	assert.Equal(t, 1.0, users["volunteer"])
}

func TestRoleGates_DeactivatedSessionRejected(t *testing.T) {
	s := newTestServer(t)
	user, token := s.member(t, "gone@riverbend.test", constants.RoleAdmin)

	require.NoError(t, s.deps.Repo.User.UpdateFields(context.Background(), user.ID, map[string]interface{}{"is_active": false}))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/me", token, nil).Code)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	s.member(t, "sam@riverbend.test", constants.RoleVolunteer)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "sam@riverbend.test", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "Sam@Riverbend.test", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "sam@riverbend.test", decode(t, me)["data"].(map[string]any)["email"])
}

func TestAnnouncements_TargetedByRole(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.member(t, "admin@riverbend.test", constants.RoleAdmin)
	_, board := s.member(t, "board@riverbend.test", constants.RoleBoardMember)
	_, volunteer := s.member(t, "vol@riverbend.test", constants.RoleVolunteer)

	rec := s.do(t, http.MethodPost, "/api/admin/announcements", admin, map[string]any{
		"title": "Budget vote", "body": "Thursday", "targetAudience": "board", "publish": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/admin/announcements", admin, map[string]any{
		"title": "Draft", "body": "Not yet", "targetAudience": "board",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	titles := func(token string) []string {
		rec := s.do(t, http.MethodGet, "/api/announcements", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []string
		for _, item := range decode(t, rec)["data"].([]any) {
			out = append(out, item.(map[string]any)["title"].(string))
		}
		return out
	}

	assert.Equal(t, []string{"Budget vote"}, titles(board))
	assert.Empty(t, titles(volunteer))
	assert.Empty(t, titles(""))

	rec = s.do(t, http.MethodGet, "/api/admin/announcements", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 2)
}

func TestDocuments_UploadListDownload(t *testing.T) {
	s := newTestServer(t)
	_, board := s.member(t, "board@riverbend.test", constants.RoleBoardMember)
	_, volunteer := s.member(t, "vol@riverbend.test", constants.RoleVolunteer)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	uploadDoc := func(token, level string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "Minutes"))
		require.NoError(t, mw.WriteField("accessLevel", level))
		part, err := mw.CreateFormFile("file", "minutes.pdf")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, uploadDoc(volunteer, "public", pdf).Code)
	assert.Equal(t, http.StatusUnauthorized, uploadDoc(board, "admin", pdf).Code)
	assert.Equal(t, http.StatusBadRequest, uploadDoc(board, "board", []byte("MZ\x90\x00 not a document")).Code)

	rec := uploadDoc(board, "board", pdf)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode(t, rec)["data"].(map[string]any)
	download := doc["downloadUrl"].(string)
	assert.True(t, strings.HasSuffix(download, "/download"))

	rec = s.do(t, http.MethodGet, "/api/documents", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, download, volunteer, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, download, "", nil).Code)

	rec = s.do(t, http.MethodGet, download, board, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=minutes.pdf`)
	assert.Equal(t, pdf, rec.Body.Bytes())
}

func TestEvents_SignupFlow(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.member(t, "admin@riverbend.test", constants.RoleAdmin)
	_, volunteer := s.member(t, "vol@riverbend.test", constants.RoleVolunteer)
	_, other := s.member(t, "other@riverbend.test", constants.RoleVolunteer)

	starts := time.Now().UTC().Add(48 * time.Hour)
	rec := s.do(t, http.MethodPost, "/api/admin/events", admin, map[string]any{
		"title": "River cleanup", "startsAt": starts, "capacity": 1, "isPublished": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	eventID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = s.do(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/events/"+eventID+"/signup", "", nil).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/events/"+eventID+"/signup", volunteer, nil).Code)

	rec = s.do(t, http.MethodPost, "/api/events/"+eventID+"/signup", other, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, constants.MsgEventFull, decode(t, rec)["error"])

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/events/"+eventID+"/signup", volunteer, nil).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/events/"+eventID+"/signup", other, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/admin/events/"+eventID+"/signups", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 2)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthCheck", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	s.do(t, http.MethodGet, "/api/tiers", "", nil)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portal_http_requests_total{endpoint="/api/tiers",method="GET",status_code="200"} 1`)
}
