package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/cache"
	"facilityaudit/internal/config"
	"facilityaudit/internal/db/dbtest"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

const testPassword = "S3cure-pass"

type testApp struct {
	app   *App
	users repository.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gormDB := dbtest.New(t)
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		LoginRateLimit:  "100-M",
	}
	a, err := New(cfg, gormDB, c, logger.NewLogger(&logger.Config{Output: io.Discard}))
	require.NoError(t, err)
	return &testApp{app: a, users: repository.NewUserRepository(gormDB)}
}

func (ta *testApp) seed(t *testing.T, role model.Role) (*model.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := &model.User{
		Email:        fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		FirstName:    "Seed",
		LastName:     string(role),
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	u.ApplyDefaults()
	require.NoError(t, ta.users.CreateWithProfile(context.Background(), u, model.NewProfileFor(role)))
	return u, ta.login(t, u.Email, testPassword)
}

func (ta *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := ta.do(t, http.MethodPost, "/token/", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Access
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.app.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func TestInspectionWorkflow(t *testing.T) {
	ta := newTestApp(t)
	_, adminToken := ta.seed(t, model.RoleAdmin)
	_, inspectorToken := ta.seed(t, model.RoleInspector)
	_, workerToken := ta.seed(t, model.RoleWorker)

	rec := ta.do(t, http.MethodPost, "/fire-alarm/", workerToken, map[string]any{
		"location":         "Block A",
		"client_name":      "Acme Care",
		"point_checked":    "CP-1",
		"alarm_functional": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.FireAlarmChecklist](t, rec)
	require.NotZero(t, created.InspectionID)
	baseURL := fmt.Sprintf("/base/%d/", created.InspectionID)

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/conduct/%d/", created.InspectionID), workerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/approve/%d/", created.InspectionID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Fields, "inspection")

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/conduct/%d/", created.InspectionID), inspectorToken,
		map[string]string{"inspection_comments": "all clear"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	conducted := decodeBody[model.BaseInspection](t, rec)
	assert.Equal(t, model.StatusCompleted, conducted.Status)
	assert.Equal(t, "all clear", conducted.InspectionComments)

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/conduct/%d/", created.InspectionID), inspectorToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/approve/%d/", created.InspectionID), inspectorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeBody[errorBody](t, rec).Code)

	rec = ta.do(t, http.MethodPost, fmt.Sprintf("/base/approve/%d/", created.InspectionID), adminToken,
		map[string]string{"approval_comments": "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusApproved, decodeBody[model.BaseInspection](t, rec).Status)

	rec = ta.do(t, http.MethodGet, baseURL+"history/", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody[[]model.InspectionEvent](t, rec)
	require.Len(t, events, 3)
	assert.Equal(t, model.EventApproved, events[2].Action)

	rec = ta.do(t, http.MethodGet, "/dashboard/stats/", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 1, stats["approved_inspections"])

	rec = ta.do(t, http.MethodGet, "/dashboard/stats/", workerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWorkerVisibility(t *testing.T) {
	ta := newTestApp(t)
	_, first := ta.seed(t, model.RoleWorker)
	_, second := ta.seed(t, model.RoleWorker)
	_, inspector := ta.seed(t, model.RoleInspector)

	rec := ta.do(t, http.MethodPost, "/smoke-alarm/", first, map[string]any{"location": "Hall", "client_name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.SmokeAlarmChecklist](t, rec)

	rec = ta.do(t, http.MethodGet, "/smoke-alarm/", second, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]model.SmokeAlarmChecklist](t, rec))

	rec = ta.do(t, http.MethodGet, fmt.Sprintf("/smoke-alarm/%d/", created.ID), second, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ta.do(t, http.MethodGet, "/smoke-alarm/", inspector, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.SmokeAlarmChecklist](t, rec), 1)
}

func TestFirstAidPatchReplacesItems(t *testing.T) {
	ta := newTestApp(t)
	_, adminToken := ta.seed(t, model.RoleAdmin)

	rec := ta.do(t, http.MethodPost, "/first-aid/", adminToken, map[string]any{
		"location":    "Kitchen",
		"client_name": "Acme Care",
		"items": []map[string]any{
			{"item_name": "Bandage", "quantity": 7, "available": true},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.FirstAidChecklist](t, rec)
	require.Len(t, created.Items, 1)
	url := fmt.Sprintf("/first-aid/%d/", created.ID)

	rec = ta.do(t, http.MethodPatch, url, adminToken, map[string]any{
		"items": []map[string]any{{"item_name": "Gauze"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decodeBody[model.FirstAidChecklist](t, rec)
	require.Len(t, patched.Items, 1)
	assert.Equal(t, "Gauze", patched.Items[0].ItemName)
	assert.Zero(t, patched.Items[0].Quantity)
	assert.False(t, patched.Items[0].Available)

	rec = ta.do(t, http.MethodPatch, url, adminToken, map[string]any{"first_aid_kit_location": "Shelf 2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ta.do(t, http.MethodGet, url, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decodeBody[model.FirstAidChecklist](t, rec)
	assert.Equal(t, "Shelf 2", stored.FirstAidKitLocation)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Gauze", stored.Items[0].ItemName)
	assert.Zero(t, stored.Items[0].Quantity)
}

func TestRegistrationThroughProfileEndpoint(t *testing.T) {
	ta := newTestApp(t)
	_, adminToken := ta.seed(t, model.RoleAdmin)
	_, workerToken := ta.seed(t, model.RoleWorker)

	body := map[string]any{
		"email":               "new.inspector@example.com",
		"password":            testPassword,
		"password2":           testPassword,
		"first_name":          "Nina",
		"last_name":           "Park",
		"years_of_experience": 4,
	}
	rec := ta.do(t, http.MethodPost, "/inspectors/", workerToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ta.do(t, http.MethodPost, "/inspectors/", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, ta.login(t, "new.inspector@example.com", testPassword))

	rec = ta.do(t, http.MethodPost, "/inspectors/", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Fields, "email")

	body["email"] = "other@example.com"
	body["password2"] = "different-pass"
	rec = ta.do(t, http.MethodPost, "/inspectors/", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestShape(t *testing.T) {
	ta := newTestApp(t)
	_, adminToken := ta.seed(t, model.RoleAdmin)

	t.Run("missing trailing slash is tolerated", func(t *testing.T) {
		rec := ta.do(t, http.MethodGet, "/user/profile", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		rec := ta.do(t, http.MethodGet, "/fire-alarm/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeBody[errorBody](t, rec).Code)
	})

	t.Run("validation errors are keyed by field", func(t *testing.T) {
		rec := ta.do(t, http.MethodPost, "/fire-alarm/", adminToken, map[string]any{"location": "A"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[errorBody](t, rec)
		assert.Equal(t, "VALIDATION_FAILED", body.Code)
		assert.Contains(t, body.Fields, "client_name")
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := ta.do(t, http.MethodGet, "/base/999/", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("health and metrics", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, ta.do(t, http.MethodGet, "/healthz", "", nil).Code)
		rec := ta.do(t, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "facility_audit_http_requests_total")
	})

	t.Run("report download", func(t *testing.T) {
		rec := ta.do(t, http.MethodGet, "/fire-alarm/reports/?format=csv", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "fire-alarm-inspection-report")
	})
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	ta := newTestApp(t)
	u, _ := ta.seed(t, model.RoleClient)

	rec := ta.do(t, http.MethodPost, "/token/", "", map[string]string{"email": u.Email, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decodeBody[map[string]any](t, rec)
	access := pair["access"].(string)

	rec = ta.do(t, http.MethodPost, "/token/logout/", access, map[string]any{"refresh": pair["refresh"]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ta.do(t, http.MethodGet, "/user/profile/", access, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ta.do(t, http.MethodPost, "/token/refresh/", "", map[string]any{"refresh": pair["refresh"]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
