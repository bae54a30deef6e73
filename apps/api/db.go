package main

import (
	"context"
	"database/sql"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/storage/database"
)

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
