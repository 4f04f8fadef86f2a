package app

import (
	"net/http"

	"gorm.io/gorm"

	"household-ledger-go/internal/config"
	"household-ledger-go/internal/db"
	householddomain "household-ledger-go/internal/domain/household"
	invitationdomain "household-ledger-go/internal/domain/invitation"
	userdomain "household-ledger-go/internal/domain/user"
	householdrepo "household-ledger-go/internal/repository/postgres/household"
	invitationrepo "household-ledger-go/internal/repository/postgres/invitation"
	userrepo "household-ledger-go/internal/repository/postgres/user"
	"household-ledger-go/internal/transport/httpserver"
	"household-ledger-go/internal/transport/httpserver/handler"
	"household-ledger-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	households := householddomain.NewService(householdrepo.NewPostgres(dbConn), cfg.DefaultCurrency)
	invitations := invitationdomain.NewService(invitationrepo.NewPostgres(dbConn), households, cfg.Invitations.TTL)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))

	log.Info("app: initializing router")
	handlers := handler.New(households, invitations, log)
	router := httpserver.NewRouter(cfg, handlers, users, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
