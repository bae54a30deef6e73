package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-insights/apps/api/echo"
	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/core/user"
	"github.com/trezcool/masomo-insights/fs"
	"github.com/trezcool/masomo-insights/services/email"
	"github.com/trezcool/masomo-insights/services/logger"
	"github.com/trezcool/masomo-insights/storage/database"
	"github.com/trezcool/masomo-insights/storage/database/inmem"
	"github.com/trezcool/masomo-insights/storage/database/sqlboiler"
	"github.com/trezcool/masomo-insights/storage/database/sqlx"
)

const inmemEngine = "inmem"

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger, err := logsvc.NewRollbarLogger("API", conf)
	if err != nil {
		fmt.Printf("setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger.Enable(!conf.Debug)
	defer func() { _ = logger.Sync() }()

	dbLogger, err := logsvc.NewRollbarLogger("DB", conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up db logger: %v", err), err)
	}
	dbLogger.Enable(!conf.Debug)

	// set up DB & repos
	var (
		usrRepo user.Repository
		srvRepo survey.Repository
	)
	if conf.Database.Engine == inmemEngine {
		db := inmemdb.Open()
		usrRepo = inmemdb.NewUserRepository(db)
		srvRepo = inmemdb.NewSurveyRepository(db)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}()
		usrRepo = sqlxrepos.NewUserRepository(database.OpenX(db, conf))
		srvRepo = boiledrepos.NewSurveyRepository(db, conf)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.Mail.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo)
	srvSvc := survey.NewService(srvRepo, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, logger, !conf.Debug)
	user.LoadCommonPasswords(appfs.FS, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		SurveySvc:  srvSvc,
		Validate:   validate,
		Translator: translator,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
