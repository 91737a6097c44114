package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobbook/internal/handlers"
	"jobbook/internal/identity"
	"jobbook/internal/services"
	"jobbook/internal/store"
)

const testToken = "tok-1"

func newTestServer(t *testing.T) (*echo.Echo, *store.RecordStore) {
	t.Helper()

	records := store.NewRecordStore(store.NewMemoryKV(), zap.NewNop())
	provider := identity.NewStaticProvider()
	provider.Add(testToken, "u1", "Ada Lovelace")

	e := echo.New()
	e.Use(identity.Middleware(provider, zap.NewNop()))

	api := e.Group("/api")
	handlers.NewIntakeHandler(services.NewIntakeService(records), zap.NewNop()).Register(api)
	handlers.NewScheduleHandler(services.NewScheduleService(records), zap.NewNop()).Register(api)
	return e, records
}

func do(t *testing.T, e *echo.Echo, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestIntakeLoadingWithoutToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/intake", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var view services.IntakeView
	decode(t, rec, &view)
	require.Equal(t, services.PhaseLoading, view.Phase)
}

func TestIntakeSubmitNotReady(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/intake",
		`{"fullName":"Ada","phone":"555","address":"1 Main St"}`, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	decode(t, rec, &resp)
	require.Equal(t, services.ErrIdentityNotReady.Error(), resp["error"])
}

func TestIntakeSubmitValidationError(t *testing.T) {
	e, records := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/intake",
		`{"fullName":"","phone":"555","address":"1 Main St"}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var view services.IntakeView
	decode(t, rec, &view)
	require.Equal(t, services.MsgFullNameRequired, view.Error)
	require.Equal(t, "555", view.Draft.Phone, "draft is retained")

	require.Nil(t, records.LoadIntake("u1"))
}

func TestIntakeSubmitSuccess(t *testing.T) {
	e, records := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/intake",
		`{"fullName":"Ada Lovelace","phone":"555-0100","address":"1 Main St","notes":"gate 4321"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		services.IntakeView
		Navigate string `json:"navigate"`
	}
	decode(t, rec, &resp)
	require.Empty(t, resp.Error)
	require.Equal(t, "/hub", resp.Navigate)

	stored := records.LoadIntake("u1")
	require.NotNil(t, stored)
	require.Equal(t, "Ada Lovelace", stored.FullName)
}

func TestIntakePrefillFromProfileName(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/intake", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view services.IntakeView
	decode(t, rec, &view)
	require.Equal(t, services.PhaseReady, view.Phase)
	require.Equal(t, "Ada Lovelace", view.Draft.FullName)
}

func TestScheduleViewNotReady(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/schedule", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScheduleAddFlow(t *testing.T) {
	e, records := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/schedule/type", `{"type":"Phone Call"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/schedule/dialog", `{"dateKey":"2024-03-15"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view services.ScheduleView
	decode(t, rec, &view)
	require.NotNil(t, view.Dialog)

	// Blank title falls back to the type default.
	rec = do(t, e, http.MethodPost, "/api/schedule/items", `{"title":"  "}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	view = services.ScheduleView{}
	decode(t, rec, &view)
	require.Equal(t, 1, view.ItemCount)
	require.Nil(t, view.Dialog)

	items := records.LoadItems("u1")
	require.Len(t, items, 1)
	require.Equal(t, "Client call", items[0].Title)
	require.Equal(t, "2024-03-15", items[0].DateKey)
}

func TestScheduleAddWithoutDialog(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/schedule/items", `{"title":"x"}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestScheduleDeleteItem(t *testing.T) {
	e, records := newTestServer(t)

	do(t, e, http.MethodPost, "/api/schedule/dialog", `{"dateKey":"2024-03-15"}`, true)
	rec := do(t, e, http.MethodPost, "/api/schedule/items", `{"title":"doomed"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	items := records.LoadItems("u1")
	require.Len(t, items, 1)

	rec = do(t, e, http.MethodDelete, "/api/schedule/items/"+items[0].ID, "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view services.ScheduleView
	decode(t, rec, &view)
	require.Zero(t, view.ItemCount)
	require.Empty(t, records.LoadItems("u1"))
}

func TestScheduleClearRequiresConfirm(t *testing.T) {
	e, _ := newTestServer(t)

	do(t, e, http.MethodPost, "/api/schedule/dialog", `{"dateKey":"2024-03-15"}`, true)
	do(t, e, http.MethodPost, "/api/schedule/items", `{"title":"stay"}`, true)

	rec := do(t, e, http.MethodPost, "/api/schedule/clear", `{"confirm":false}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/schedule/clear", `{"confirm":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view services.ScheduleView
	decode(t, rec, &view)
	require.Zero(t, view.ItemCount)
}

func TestScheduleNavigate(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/schedule/view", `{"direction":"next"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/schedule/view", `{"direction":"sideways"}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestScheduleExportICS(t *testing.T) {
	e, _ := newTestServer(t)

	do(t, e, http.MethodPost, "/api/schedule/dialog", `{"dateKey":"2024-03-15"}`, true)
	do(t, e, http.MethodPost, "/api/schedule/items", `{"title":"Inspect furnace"}`, true)

	rec := do(t, e, http.MethodGet, "/api/schedule/export.ics", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/calendar")

	body := rec.Body.String()
	require.Contains(t, body, "BEGIN:VCALENDAR")
	require.Contains(t, body, "SUMMARY:Inspect furnace")
	require.Contains(t, body, "DTSTART;VALUE=DATE:20240315")
}
