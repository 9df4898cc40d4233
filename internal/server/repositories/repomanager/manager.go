// Package repomanager vends repository implementations bound to a DBTX, so
// services can run the same repositories against *sql.DB or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/repositories/measurements"
	"github.com/pancakescience/cooktrack/internal/server/repositories/programs"
	"github.com/pancakescience/cooktrack/internal/server/repositories/sessions"
	"github.com/pancakescience/cooktrack/internal/server/repositories/settings"
	"github.com/pancakescience/cooktrack/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Programs(db dbx.DBTX) programs.Repository
	Settings(db dbx.DBTX) settings.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Measurements(db dbx.DBTX) measurements.Repository
}
