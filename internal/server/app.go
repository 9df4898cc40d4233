// Package server initializes and runs the cooktrack application server.
// It opens the database, applies schema migrations, wires the services,
// and serves the HTTP API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pancakescience/cooktrack/internal/logging"
	"github.com/pancakescience/cooktrack/internal/mqttx"
	"github.com/pancakescience/cooktrack/internal/server/config"
	"github.com/pancakescience/cooktrack/internal/server/httpapi"
	"github.com/pancakescience/cooktrack/internal/server/repositories/repomanager"
	"github.com/pancakescience/cooktrack/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	publisher := mqttx.NewPahoPublisher(cfg.MQTTHost, cfg.MQTTPort,
		cfg.MQTTUsername, cfg.MQTTPassword, cfg.MQTTConnectTimeout)

	userService := services.NewUserService(db, rm, cfg)
	programService := services.NewProgramService(db, rm)
	sessionService := services.NewSessionService(db, rm)
	publisherService := services.NewPublisherService(db, rm, publisher, cfg)

	api := httpapi.New(userService, programService, sessionService, publisherService,
		[]byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx, app.config.EndpointAddrHTTP); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
