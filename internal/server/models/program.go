package models

// Program is a named sequence of temperature phases a user defines once and
// reuses across sessions.
type Program struct {
	ID     int64
	UserID int64
	Name   string
}

// PhaseSetting is one (label, target temperature) pair belonging to a
// program. Duplicate labels are permitted by the schema.
type PhaseSetting struct {
	ID                int64
	ProgramID         int64
	Phase             string
	TargetTemperature float64
}
