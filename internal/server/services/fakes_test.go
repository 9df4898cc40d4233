package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/models"
	measurementsrepo "github.com/pancakescience/cooktrack/internal/server/repositories/measurements"
	programsrepo "github.com/pancakescience/cooktrack/internal/server/repositories/programs"
	sessionsrepo "github.com/pancakescience/cooktrack/internal/server/repositories/sessions"
	settingsrepo "github.com/pancakescience/cooktrack/internal/server/repositories/settings"
	usersrepo "github.com/pancakescience/cooktrack/internal/server/repositories/users"
)

// --- fake repositories shared by the service tests ---

type fakeUsersRepo struct {
	createID  int64
	createErr error

	// createdDigest captures the password digest passed to Create.
	createdDigest string

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	f.createdDigest = passwordHash
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeProgramsRepo struct {
	createID  int64
	createErr error

	listOut []models.Program
	listErr error

	owned    bool
	ownedErr error

	updateOK  bool
	updateErr error
}

func (f *fakeProgramsRepo) Create(ctx context.Context, userID int64, name string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.createID, nil
}

func (f *fakeProgramsRepo) ListForUser(ctx context.Context, userID int64) ([]models.Program, error) {
	return f.listOut, f.listErr
}

func (f *fakeProgramsRepo) OwnedBy(ctx context.Context, userID, programID int64) (bool, error) {
	return f.owned, f.ownedErr
}

func (f *fakeProgramsRepo) UpdateName(ctx context.Context, userID, programID int64, name string) (bool, error) {
	return f.updateOK, f.updateErr
}

type insertedPhase struct {
	programID int64
	phase     string
	target    float64
}

type fakeSettingsRepo struct {
	insertErr error
	inserted  []insertedPhase

	listOut []models.PhaseSetting
	listErr error

	deleteErr   error
	deleteCalls int
}

func (f *fakeSettingsRepo) Insert(ctx context.Context, programID int64, phase string, target float64) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, insertedPhase{programID: programID, phase: phase, target: target})
	return nil
}

func (f *fakeSettingsRepo) ListForProgram(ctx context.Context, programID int64) ([]models.PhaseSetting, error) {
	return f.listOut, f.listErr
}

func (f *fakeSettingsRepo) DeleteForProgram(ctx context.Context, programID int64) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeSessionsRepo struct {
	insertID    int64
	insertErr   error
	insertCalls int

	listOut []models.Session
	listErr error

	getOut *models.Session
	getErr error

	closeOK  bool
	closeErr error
}

func (f *fakeSessionsRepo) Insert(ctx context.Context, programID int64, startTime time.Time) (int64, error) {
	f.insertCalls++
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	return f.insertID, nil
}

func (f *fakeSessionsRepo) ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error) {
	return f.listOut, f.listErr
}

func (f *fakeSessionsRepo) Get(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeSessionsRepo) Close(ctx context.Context, userID, sessionID int64, endTime time.Time) (bool, error) {
	return f.closeOK, f.closeErr
}

type insertedMeasurement struct {
	sessionID   int64
	temperature float64
	phase       string
	timestamp   time.Time
}

type fakeMeasurementsRepo struct {
	insertID  int64
	insertErr error
	inserted  []insertedMeasurement

	listOut []models.Measurement
	listErr error
}

func (f *fakeMeasurementsRepo) Insert(ctx context.Context, sessionID int64, temperature float64, phase string, timestamp time.Time) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, insertedMeasurement{sessionID: sessionID, temperature: temperature, phase: phase, timestamp: timestamp})
	return f.insertID, nil
}

func (f *fakeMeasurementsRepo) ListForSession(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error) {
	return f.listOut, f.listErr
}

// fakeRepoManager vends the fakes above regardless of the DBTX handed in.
type fakeRepoManager struct {
	u  *fakeUsersRepo
	p  *fakeProgramsRepo
	st *fakeSettingsRepo
	se *fakeSessionsRepo
	m  *fakeMeasurementsRepo
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.u }

func (f *fakeRepoManager) Programs(db dbx.DBTX) programsrepo.Repository { return f.p }

func (f *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository { return f.st }

func (f *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository { return f.se }

func (f *fakeRepoManager) Measurements(db dbx.DBTX) measurementsrepo.Repository { return f.m }
