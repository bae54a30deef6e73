package main

import (
	"fmt"
	"os"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/services/email"
	"github.com/trezcool/masomo-insights/services/logger"
	"github.com/trezcool/masomo-insights/storage/database"
	"github.com/trezcool/masomo-insights/storage/database/sqlboiler"
	"github.com/trezcool/masomo-insights/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewRollbarLogger("ADMIN", conf)
	if err != nil {
		fmt.Printf("setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger.Enable(!conf.Debug)
	defer func() { _ = logger.Sync() }()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = db.Ping(); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		db:        db,
		usrRepo:   sqlxrepos.NewUserRepository(database.OpenX(db, conf)),
		surveySvc: survey.NewService(boiledrepos.NewSurveyRepository(db, conf), emailsvc.NewConsoleService(conf, logger), logger),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
