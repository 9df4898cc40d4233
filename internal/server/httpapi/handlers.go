package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pancakescience/cooktrack/internal/common"
)

// handleRegister creates an account.
// POST /api/register {"username","password"}
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	id, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "user_id": id})
}

// handleLogin verifies credentials and mints an access token.
// POST /api/login {"username","password"}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"access_token": token,
		"user":         userResponse{ID: user.ID, Username: user.Username},
	})
}

// handleListPrograms returns the caller's programs, newest first.
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.programs.ListForUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProgramResponses(programs))
}

// handleCreateProgram creates a program and its phase settings atomically.
// POST /api/programs {"name","phases":[{"phase","target_temperature"}]}
func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	id, err := s.programs.CreateWithPhases(r.Context(), userIDFrom(r.Context()), req.Name, req.phaseInputs())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "program_id": id})
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	programID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	program, err := s.programs.Get(r.Context(), userIDFrom(r.Context()), programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, programResponse{ID: program.ID, Name: program.Name})
}

// handleUpdateProgram renames a program and replaces its phase settings
// wholesale.
// PUT /api/programs/{id} {"name","phases":[...]}
func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	programID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req programRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	err := s.programs.ReplaceWithPhases(r.Context(), userIDFrom(r.Context()), programID, req.Name, req.phaseInputs())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "program_id": programID})
}

func (s *Server) handleListPhaseSettings(w http.ResponseWriter, r *http.Request) {
	programID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	settings, err := s.programs.ListPhaseSettings(r.Context(), userIDFrom(r.Context()), programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPhaseSettingResponses(settings))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	programID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	sessions, err := s.sessions.ListForProgram(r.Context(), userIDFrom(r.Context()), programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// handleStartSession starts a session and pushes the program's phases to the
// device. The session row is committed before the publish attempt, so a
// broker failure still reports the created session_id alongside the error.
// POST /api/programs/{id}/sessions
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	programID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())

	sessionID, err := s.sessions.Start(r.Context(), userID, programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.notifier.PublishProgramPhases(r.Context(), userID, programID, sessionID); err != nil {
		s.logger.Error(r.Context(), "device notification failed", "session_id", sessionID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":     "error",
			"error":      "failed to notify device",
			"session_id": sessionID,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "session_id": sessionID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	session, err := s.sessions.Get(r.Context(), userIDFrom(r.Context()), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(*session))
}

// handleEndSession closes an open session. Unknown, foreign, and
// already-ended sessions all answer 404.
// POST /api/sessions/{id}/end
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	closed, err := s.sessions.End(r.Context(), userIDFrom(r.Context()), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !closed {
		s.writeJSONError(w, http.StatusNotFound, "session not found or already ended")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	measurements, err := s.sessions.ListMeasurements(r.Context(), userIDFrom(r.Context()), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMeasurementResponses(measurements))
}

// handleAddMeasurement records one reading for a session.
// POST /api/sessions/{id}/measurements {"temperature","phase","timestamp"?}
func (s *Server) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req measurementRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	id, err := s.sessions.AddMeasurement(r.Context(), userIDFrom(r.Context()), sessionID,
		req.Temperature, req.Phase, req.Timestamp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "measurement_id": id})
}

// handlePublishWifi pushes wifi credentials to the device.
// POST /api/wifi {"ssid","password"}
func (s *Server) handlePublishWifi(w http.ResponseWriter, r *http.Request) {
	var req wifiRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.SSID) == "" || req.Password == "" {
		s.writeJSONError(w, http.StatusBadRequest, "ssid and password are required")
		return
	}

	if err := s.notifier.PublishWifiCredentials(r.Context(), req.SSID, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// helpers

// pathID parses the {id} path segment; a malformed id answers 400.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSONError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v; a malformed body answers 400.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses. Internals never leak:
// anything outside the known taxonomy answers a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *common.ValidationError
	var pErr *common.PublishError

	switch {
	case errors.As(err, &vErr):
		s.writeJSONError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, common.ErrDuplicateUsername):
		s.writeJSONError(w, http.StatusBadRequest, "username already exists")
	case errors.Is(err, common.ErrUnauthorized):
		s.writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, common.ErrOwnership), errors.Is(err, common.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, "not found")
	case errors.As(err, &pErr):
		s.logger.Error(r.Context(), "device notification failed", "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to notify device")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn(context.Background(), "failed to encode response", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"status": "error", "error": message})
}
