package models

import "time"

// Measurement is one timestamped temperature reading recorded during a
// session. Measurements are append-only.
type Measurement struct {
	ID          int64
	SessionID   int64
	Temperature float64
	Phase       string
	Timestamp   time.Time
}
