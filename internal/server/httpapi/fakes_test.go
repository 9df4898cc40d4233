package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/pancakescience/cooktrack/internal/logging"
	"github.com/pancakescience/cooktrack/internal/server/auth"
	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

// fake services backing the handler tests

type fakeUsers struct {
	registerID  int64
	registerErr error

	loginUser  *models.User
	loginToken string
	loginErr   error
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (int64, error) {
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	return f.registerID, nil
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginUser, f.loginToken, nil
}

type fakePrograms struct {
	createID  int64
	createErr error

	gotName   string
	gotPhases []services.PhaseInput

	replaceErr error

	listOut []models.Program
	listErr error

	getOut *models.Program
	getErr error

	settingsOut []models.PhaseSetting
	settingsErr error
}

func (f *fakePrograms) CreateWithPhases(ctx context.Context, userID int64, name string, phases []services.PhaseInput) (int64, error) {
	f.gotName, f.gotPhases = name, phases
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakePrograms) ReplaceWithPhases(ctx context.Context, userID, programID int64, name string, phases []services.PhaseInput) error {
	f.gotName, f.gotPhases = name, phases
	return f.replaceErr
}

func (f *fakePrograms) ListForUser(ctx context.Context, userID int64) ([]models.Program, error) {
	return f.listOut, f.listErr
}

func (f *fakePrograms) Get(ctx context.Context, userID, programID int64) (*models.Program, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakePrograms) ListPhaseSettings(ctx context.Context, userID, programID int64) ([]models.PhaseSetting, error) {
	return f.settingsOut, f.settingsErr
}

type fakeSessions struct {
	startID   int64
	startErr  error
	startUser int64

	endOK  bool
	endErr error

	listOut []models.Session
	listErr error

	getOut *models.Session
	getErr error

	addID       int64
	addErr      error
	gotPhase    string
	gotTemp     *float64
	gotTimeArg  *time.Time
	gotSession  int64
	addMeasUser int64

	measOut []models.Measurement
	measErr error
}

func (f *fakeSessions) Start(ctx context.Context, userID, programID int64) (int64, error) {
	f.startUser = userID
	if f.startErr != nil {
		return 0, f.startErr
	}
	return f.startID, nil
}

func (f *fakeSessions) End(ctx context.Context, userID, sessionID int64) (bool, error) {
	return f.endOK, f.endErr
}

func (f *fakeSessions) ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error) {
	return f.listOut, f.listErr
}

func (f *fakeSessions) Get(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSessions) AddMeasurement(ctx context.Context, userID, sessionID int64, temperature *float64, phase string, timestamp *time.Time) (int64, error) {
	f.addMeasUser, f.gotSession = userID, sessionID
	f.gotTemp, f.gotPhase, f.gotTimeArg = temperature, phase, timestamp
	if f.addErr != nil {
		return 0, f.addErr
	}
	return f.addID, nil
}

func (f *fakeSessions) ListMeasurements(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error) {
	return f.measOut, f.measErr
}

type fakeNotifier struct {
	phasesErr   error
	phasesCalls int

	wifiErr  error
	gotSSID  string
	gotPass  string
	wifiSent bool
}

func (f *fakeNotifier) PublishProgramPhases(ctx context.Context, userID, programID, sessionID int64) error {
	f.phasesCalls++
	return f.phasesErr
}

func (f *fakeNotifier) PublishWifiCredentials(ctx context.Context, ssid, password string) error {
	if f.wifiErr != nil {
		return f.wifiErr
	}
	f.gotSSID, f.gotPass, f.wifiSent = ssid, password, true
	return nil
}

// testServer bundles the fakes with a routed handler.
type testServer struct {
	users    *fakeUsers
	programs *fakePrograms
	sessions *fakeSessions
	notifier *fakeNotifier
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		users:    &fakeUsers{},
		programs: &fakePrograms{},
		sessions: &fakeSessions{},
		notifier: &fakeNotifier{},
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := New(ts.users, ts.programs, ts.sessions, ts.notifier, []byte(testSecret), logger)
	ts.handler = srv.routes()
	return ts
}

// bearerToken mints a token the middleware will accept.
func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}
