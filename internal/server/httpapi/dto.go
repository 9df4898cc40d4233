package httpapi

import (
	"time"

	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/services"
)

// request payloads

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type phaseRequest struct {
	Phase             string   `json:"phase"`
	TargetTemperature *float64 `json:"target_temperature"`
}

type programRequest struct {
	Name   string         `json:"name"`
	Phases []phaseRequest `json:"phases"`
}

type measurementRequest struct {
	Temperature *float64   `json:"temperature"`
	Phase       string     `json:"phase"`
	Timestamp   *time.Time `json:"timestamp"`
}

type wifiRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

func (r programRequest) phaseInputs() []services.PhaseInput {
	phases := make([]services.PhaseInput, 0, len(r.Phases))
	for _, p := range r.Phases {
		phases = append(phases, services.PhaseInput{Phase: p.Phase, TargetTemperature: p.TargetTemperature})
	}
	return phases
}

// response payloads

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type programResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type phaseSettingResponse struct {
	Phase             string  `json:"phase"`
	TargetTemperature float64 `json:"target_temperature"`
}

type sessionResponse struct {
	ID        int64      `json:"id"`
	ProgramID int64      `json:"program_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type measurementResponse struct {
	ID          int64     `json:"id"`
	Temperature float64   `json:"temperature"`
	Phase       string    `json:"phase"`
	Timestamp   time.Time `json:"timestamp"`
}

func toProgramResponses(programs []models.Program) []programResponse {
	out := make([]programResponse, 0, len(programs))
	for _, p := range programs {
		out = append(out, programResponse{ID: p.ID, Name: p.Name})
	}
	return out
}

func toPhaseSettingResponses(settings []models.PhaseSetting) []phaseSettingResponse {
	out := make([]phaseSettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, phaseSettingResponse{Phase: s.Phase, TargetTemperature: s.TargetTemperature})
	}
	return out
}

func toSessionResponse(s models.Session) sessionResponse {
	return sessionResponse{ID: s.ID, ProgramID: s.ProgramID, StartTime: s.StartTime, EndTime: s.EndTime}
}

func toSessionResponses(sessions []models.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return out
}

func toMeasurementResponses(measurements []models.Measurement) []measurementResponse {
	out := make([]measurementResponse, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, measurementResponse{ID: m.ID, Temperature: m.Temperature, Phase: m.Phase, Timestamp: m.Timestamp})
	}
	return out
}
