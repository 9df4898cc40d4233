// Package httpapi implements the JSON HTTP adapter for the cooktrack server.
// It authenticates requests, decodes payloads, and delegates to the services;
// all business rules live below this package.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/pancakescience/cooktrack/internal/logging"
	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/services"
)

// UserRegistry handles account creation and credential checks.
type UserRegistry interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// ProgramComposer manages programs and their phase settings.
type ProgramComposer interface {
	CreateWithPhases(ctx context.Context, userID int64, name string, phases []services.PhaseInput) (int64, error)
	ReplaceWithPhases(ctx context.Context, userID, programID int64, name string, phases []services.PhaseInput) error
	ListForUser(ctx context.Context, userID int64) ([]models.Program, error)
	Get(ctx context.Context, userID, programID int64) (*models.Program, error)
	ListPhaseSettings(ctx context.Context, userID, programID int64) ([]models.PhaseSetting, error)
}

// SessionLedger manages timed runs and their measurements.
type SessionLedger interface {
	Start(ctx context.Context, userID, programID int64) (int64, error)
	End(ctx context.Context, userID, sessionID int64) (bool, error)
	ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error)
	Get(ctx context.Context, userID, sessionID int64) (*models.Session, error)
	AddMeasurement(ctx context.Context, userID, sessionID int64, temperature *float64, phase string, timestamp *time.Time) (int64, error)
	ListMeasurements(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error)
}

// DeviceNotifier pushes control and credential messages to the device.
type DeviceNotifier interface {
	PublishProgramPhases(ctx context.Context, userID, programID, sessionID int64) error
	PublishWifiCredentials(ctx context.Context, ssid, password string) error
}

// Server is the HTTP adapter.
type Server struct {
	users     UserRegistry
	programs  ProgramComposer
	sessions  SessionLedger
	notifier  DeviceNotifier
	jwtSecret []byte
	logger    logging.Logger
}

// New creates the HTTP adapter over the given services.
func New(users UserRegistry, programs ProgramComposer, sessions SessionLedger,
	notifier DeviceNotifier, jwtSecret []byte, logger logging.Logger) *Server {
	return &Server{
		users:     users,
		programs:  programs,
		sessions:  sessions,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Run serves the API on address until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(context.Background(), "http shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting http server", "address", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// logfAdapter lets the structured logger back the go-pkgz/rest middlewares,
// which expect a printf-style Logf.
type logfAdapter struct {
	logger logging.Logger
}

func (a logfAdapter) Logf(format string, args ...interface{}) {
	a.logger.Error(context.Background(), fmt.Sprintf(format, args...))
}

// routes wires the middleware chain and the route table.
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.RealIP,
		rest.Recoverer(logfAdapter{logger: s.logger}),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024),
	)

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)

		// open endpoints
		api.HandleFunc("POST /register", s.handleRegister)
		api.HandleFunc("POST /login", s.handleLogin)

		// everything below requires a bearer token
		api.Group().Route(func(priv *routegroup.Bundle) {
			priv.Use(s.authMiddleware)

			priv.HandleFunc("GET /programs", s.handleListPrograms)
			priv.HandleFunc("POST /programs", s.handleCreateProgram)
			priv.HandleFunc("GET /programs/{id}", s.handleGetProgram)
			priv.HandleFunc("PUT /programs/{id}", s.handleUpdateProgram)
			priv.HandleFunc("GET /programs/{id}/settings", s.handleListPhaseSettings)
			priv.HandleFunc("GET /programs/{id}/sessions", s.handleListSessions)
			priv.HandleFunc("POST /programs/{id}/sessions", s.handleStartSession)

			priv.HandleFunc("GET /sessions/{id}", s.handleGetSession)
			priv.HandleFunc("POST /sessions/{id}/end", s.handleEndSession)
			priv.HandleFunc("GET /sessions/{id}/measurements", s.handleListMeasurements)
			priv.HandleFunc("POST /sessions/{id}/measurements", s.handleAddMeasurement)

			priv.HandleFunc("POST /wifi", s.handlePublishWifi)
		})
	})

	return router
}
