package models

import "time"

// Session is one timed execution of a program. EndTime is nil while the
// session is running and is written at most once.
type Session struct {
	ID        int64
	ProgramID int64
	StartTime time.Time
	EndTime   *time.Time
}
