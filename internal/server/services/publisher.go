package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/mqttx"
	"github.com/pancakescience/cooktrack/internal/server/config"
	"github.com/pancakescience/cooktrack/internal/server/repositories/repomanager"
)

// PublisherService is the telemetry publisher: the single point where a
// database read is turned into an outbound control message. It makes one
// publish attempt per call; a committed session stays committed even when
// the device notification after it fails.
type PublisherService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	publisher    mqttx.Publisher
	controlTopic string
	wifiTopic    string
}

func NewPublisherService(db *sql.DB, m repomanager.RepositoryManager, publisher mqttx.Publisher, cfg *config.Config) *PublisherService {
	return &PublisherService{
		db:           db,
		repomanager:  m,
		publisher:    publisher,
		controlTopic: cfg.ControlTopic,
		wifiTopic:    cfg.WifiTopic,
	}
}

// phaseMessage and programMessage are the wire shapes the device firmware
// parses; field names are part of the device contract.
type phaseMessage struct {
	Phase             string  `json:"phase"`
	TargetTemperature float64 `json:"target_temperature"`
}

type programMessage struct {
	ProgramID int64          `json:"program_id"`
	SessionID int64          `json:"session_id"`
	Phases    []phaseMessage `json:"phases"`
}

type wifiMessage struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// PublishProgramPhases loads the program's phase settings scoped to the
// user and publishes them, retained, on the control topic. A non-owned
// program returns common.ErrOwnership without contacting the broker. A
// program with no settings publishes an empty phases array and succeeds.
func (s *PublisherService) PublishProgramPhases(ctx context.Context, userID, programID, sessionID int64) error {
	owned, err := s.repomanager.Programs(s.db).OwnedBy(ctx, userID, programID)
	if err != nil {
		return fmt.Errorf("error checking ownership: %w", err)
	}
	if !owned {
		return common.ErrOwnership
	}

	phases, err := s.repomanager.Settings(s.db).ListForProgram(ctx, programID)
	if err != nil {
		return fmt.Errorf("error loading phase settings: %w", err)
	}

	msg := programMessage{
		ProgramID: programID,
		SessionID: sessionID,
		Phases:    make([]phaseMessage, 0, len(phases)),
	}
	for _, p := range phases {
		msg.Phases = append(msg.Phases, phaseMessage{Phase: p.Phase, TargetTemperature: p.TargetTemperature})
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error encoding control message: %w", err)
	}

	if err := s.publisher.Publish(ctx, s.controlTopic, payload, true); err != nil {
		return &common.PublishError{Err: err}
	}
	return nil
}

// PublishWifiCredentials pushes a credential update to the device on the
// wifi topic, not retained. Presence validation of ssid/password is the
// HTTP adapter's responsibility.
func (s *PublisherService) PublishWifiCredentials(ctx context.Context, ssid, password string) error {
	payload, err := json.Marshal(wifiMessage{SSID: ssid, Password: password})
	if err != nil {
		return fmt.Errorf("error encoding wifi message: %w", err)
	}

	if err := s.publisher.Publish(ctx, s.wifiTopic, payload, false); err != nil {
		return &common.PublishError{Err: err}
	}
	return nil
}
