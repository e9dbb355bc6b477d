// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package database

import (
	"context"
	"embed"
	"io/fs"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/maragudk/migrate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Supported registry drivers.
const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverLevelDB  = "leveldb"
)

//go:embed migrate/*.sql
var migrations embed.FS

// pingRetries bounds the retries after the first failed ping.
const pingRetries = 4

// Connect opens the registry database and applies pending migrations.
func Connect(ctx context.Context, driver, datasource string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, datasource)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s registry", driver)
	}
	if driver == DriverSqlite {
		// a single connection keeps in-memory databases alive
		// and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	files, err := fs.Sub(migrations, "migrate")
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate.Up(ctx, db.DB, files); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot migrate registry")
	}
	return db, nil
}

// ping waits for the database to accept connections, which matters for
// postgres starting alongside the service.
func ping(ctx context.Context, db *sqlx.DB) error {
	attempt := 0
	op := func() error {
		attempt++
		err := db.PingContext(ctx)
		if err != nil {
			logrus.WithError(err).WithField("attempt", attempt).Debugln("registry: database not ready")
		}
		return err
	}
	bf := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), pingRetries), ctx)
	if err := backoff.Retry(op, bf); err != nil {
		return errors.Wrap(err, "registry: database unreachable")
	}
	return nil
}

func statementBuilder(driver string) squirrel.StatementBuilderType {
	if driver == DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}
