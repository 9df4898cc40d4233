package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/server/models"
)

func doRequest(ts *testServer, method, path, body, authHeader string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("{}")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	ts := newTestServer(t)
	ts.users.registerID = 42

	rec := doRequest(ts, http.MethodPost, "/api/register", `{"username":"alice","password":"flipside"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","user_id":42}`, rec.Body.String())
}

func TestHandleRegister_Duplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.users.registerErr = common.ErrDuplicateUsername

	rec := doRequest(ts, http.MethodPost, "/api/register", `{"username":"alice","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestHandleRegister_BadBody(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodPost, "/api/register", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.users.loginUser = &models.User{ID: 7, Username: "alice"}
	ts.users.loginToken = "signed-token"

	rec := doRequest(ts, http.MethodPost, "/api/login", `{"username":"alice","password":"flipside"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"status":"ok","access_token":"signed-token","user":{"id":7,"username":"alice"}}`,
		rec.Body.String())
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.users.loginErr = common.ErrUnauthorized

	rec := doRequest(ts, http.MethodPost, "/api/login", `{"username":"alice","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodGet, "/api/programs", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token")

	rec = doRequest(ts, http.MethodGet, "/api/programs", "", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "malformed token")

	rec = doRequest(ts, http.MethodGet, "/api/programs", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code, "valid token")
}

func TestHandleListPrograms(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.listOut = []models.Program{
		{ID: 5, UserID: 7, Name: "Crepes"},
		{ID: 3, UserID: 7, Name: "Pancakes"},
	}

	rec := doRequest(ts, http.MethodGet, "/api/programs", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":5,"name":"Crepes"},{"id":3,"name":"Pancakes"}]`, rec.Body.String())
}

func TestHandleListPrograms_Empty(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.listOut = []models.Program{}

	rec := doRequest(ts, http.MethodGet, "/api/programs", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "empty list must encode as an array, not null")
}

func TestHandleCreateProgram(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.createID = 3

	body := `{"name":"Pancakes","phases":[{"phase":"heatup","target_temperature":180}]}`
	rec := doRequest(ts, http.MethodPost, "/api/programs", body, bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","program_id":3}`, rec.Body.String())

	require.Len(t, ts.programs.gotPhases, 1)
	assert.Equal(t, "heatup", ts.programs.gotPhases[0].Phase)
	require.NotNil(t, ts.programs.gotPhases[0].TargetTemperature)
	assert.Equal(t, 180.0, *ts.programs.gotPhases[0].TargetTemperature)
}

func TestHandleCreateProgram_ValidationError(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.createErr = common.NewValidationError("program name required")

	rec := doRequest(ts, http.MethodPost, "/api/programs", `{"name":""}`, bearerToken(t, 7))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "program name required")
}

func TestHandleGetProgram_NotOwned(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.getErr = common.ErrOwnership

	rec := doRequest(ts, http.MethodGet, "/api/programs/3", "", bearerToken(t, 8))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetProgram_BadID(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodGet, "/api/programs/abc", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateProgram(t *testing.T) {
	ts := newTestServer(t)

	body := `{"name":"Thin Pancakes","phases":[{"phase":"cook","target_temperature":190}]}`
	rec := doRequest(ts, http.MethodPut, "/api/programs/3", body, bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","program_id":3}`, rec.Body.String())
	assert.Equal(t, "Thin Pancakes", ts.programs.gotName)
}

func TestHandleListPhaseSettings(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.settingsOut = []models.PhaseSetting{
		{ID: 1, ProgramID: 3, Phase: "heatup", TargetTemperature: 180},
	}

	rec := doRequest(ts, http.MethodGet, "/api/programs/3/settings", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"phase":"heatup","target_temperature":180}]`, rec.Body.String())
}

func TestHandleStartSession(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.startID = 11

	rec := doRequest(ts, http.MethodPost, "/api/programs/3/sessions", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","session_id":11}`, rec.Body.String())
	assert.Equal(t, 1, ts.notifier.phasesCalls)
	assert.Equal(t, int64(7), ts.sessions.startUser)
}

func TestHandleStartSession_PublishFails(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.startID = 11
	ts.notifier.phasesErr = &common.PublishError{Err: errors.New("broker down")}

	rec := doRequest(ts, http.MethodPost, "/api/programs/3/sessions", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// the session committed before the publish attempt, so its id is reported
	assert.JSONEq(t,
		`{"status":"error","error":"failed to notify device","session_id":11}`,
		rec.Body.String())
}

func TestHandleStartSession_NotOwned(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.startErr = common.ErrOwnership

	rec := doRequest(ts, http.MethodPost, "/api/programs/3/sessions", "", bearerToken(t, 8))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, ts.notifier.phasesCalls, "no device message for a foreign program")
}

func TestHandleListSessions(t *testing.T) {
	ts := newTestServer(t)
	started := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	ended := started.Add(20 * time.Minute)
	ts.sessions.listOut = []models.Session{
		{ID: 12, ProgramID: 3, StartTime: started.Add(time.Hour)},
		{ID: 11, ProgramID: 3, StartTime: started, EndTime: &ended},
	}

	rec := doRequest(ts, http.MethodGet, "/api/programs/3/sessions", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":12,"program_id":3,"start_time":"2026-02-01T10:30:00Z","end_time":null},
		{"id":11,"program_id":3,"start_time":"2026-02-01T09:30:00Z","end_time":"2026-02-01T09:50:00Z"}
	]`, rec.Body.String())
}

func TestHandleGetSession(t *testing.T) {
	ts := newTestServer(t)
	started := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	ts.sessions.getOut = &models.Session{ID: 11, ProgramID: 3, StartTime: started}

	rec := doRequest(ts, http.MethodGet, "/api/sessions/11", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":11,"program_id":3,"start_time":"2026-02-01T09:30:00Z","end_time":null}`,
		rec.Body.String())
}

func TestHandleEndSession(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.endOK = true

	rec := doRequest(ts, http.MethodPost, "/api/sessions/11/end", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleEndSession_AlreadyEnded(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.endOK = false

	rec := doRequest(ts, http.MethodPost, "/api/sessions/11/end", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found or already ended")
}

func TestHandleAddMeasurement(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.addID = 101

	body := `{"temperature":178.5,"phase":"cook","timestamp":"2026-02-01T09:31:00Z"}`
	rec := doRequest(ts, http.MethodPost, "/api/sessions/11/measurements", body, bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","measurement_id":101}`, rec.Body.String())

	require.NotNil(t, ts.sessions.gotTemp)
	assert.Equal(t, 178.5, *ts.sessions.gotTemp)
	assert.Equal(t, "cook", ts.sessions.gotPhase)
	require.NotNil(t, ts.sessions.gotTimeArg)
	assert.Equal(t, time.Date(2026, 2, 1, 9, 31, 0, 0, time.UTC), ts.sessions.gotTimeArg.UTC())
	assert.Equal(t, int64(11), ts.sessions.gotSession)
}

func TestHandleAddMeasurement_NoTimestamp(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.addID = 101

	rec := doRequest(ts, http.MethodPost, "/api/sessions/11/measurements",
		`{"temperature":178.5,"phase":"cook"}`, bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, ts.sessions.gotTimeArg, "absent timestamp stays nil so the service applies its clock")
}

func TestHandleListMeasurements(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.measOut = []models.Measurement{
		{ID: 101, SessionID: 11, Temperature: 178.5, Phase: "cook",
			Timestamp: time.Date(2026, 2, 1, 9, 31, 0, 0, time.UTC)},
	}

	rec := doRequest(ts, http.MethodGet, "/api/sessions/11/measurements", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"id":101,"temperature":178.5,"phase":"cook","timestamp":"2026-02-01T09:31:00Z"}]`,
		rec.Body.String())
}

func TestHandlePublishWifi(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodPost, "/api/wifi",
		`{"ssid":"kitchen-net","password":"s3cret"}`, bearerToken(t, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.notifier.wifiSent)
	assert.Equal(t, "kitchen-net", ts.notifier.gotSSID)
	assert.Equal(t, "s3cret", ts.notifier.gotPass)
}

func TestHandlePublishWifi_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodPost, "/api/wifi", `{"ssid":"kitchen-net"}`, bearerToken(t, 7))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, ts.notifier.wifiSent)
}

func TestHandlePublishWifi_BrokerDown(t *testing.T) {
	ts := newTestServer(t)
	ts.notifier.wifiErr = &common.PublishError{Err: errors.New("connection refused")}

	rec := doRequest(ts, http.MethodPost, "/api/wifi",
		`{"ssid":"kitchen-net","password":"s3cret"}`, bearerToken(t, 7))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to notify device")
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)

	rec := doRequest(ts, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownErrorStaysGeneric(t *testing.T) {
	ts := newTestServer(t)
	ts.programs.listErr = errors.New("pq: connection reset by peer")

	rec := doRequest(ts, http.MethodGet, "/api/programs", "", bearerToken(t, 7))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:", "driver errors must not leak to clients")
	assert.Contains(t, rec.Body.String(), "internal error")
}
