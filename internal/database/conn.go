// Copyright (C) 2019  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	rice "github.com/GeertJohan/go.rice"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/log"
)

const (
	driverName     = "sqlite3"
	changelogTable = "database_changelog"
)

func init() {
	migrate.SetTable(changelogTable)

	viper.SetDefault("storage.database.filename", "data/briefpop.sqlite")
	viper.SetDefault("storage.database.journalmode", "wal")
}

type Queryer interface {
	sqlx.ExtContext
}

type Tx interface {
	Queryer
	Commit() error
	Rollback() error
	RollbackWith(func()) error
}

type tx struct {
	*sqlx.Tx
}

func (t tx) RollbackWith(callback func()) error {
	err := t.Rollback()

	if !errors.Is(err, sql.ErrTxDone) {
		callback()
	}

	return err
}

type Conn interface {
	Queryer
	Begin(context.Context) (Tx, error)
	Close() error
}

type conn struct {
	*sqlx.DB
}

func (c conn) Begin(ctx context.Context) (Tx, error) {
	rawTx, err := c.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return tx{rawTx}, nil
}

type ConnOptions struct {
	Filename    string
	JournalMode string
}

func ConnOptionsFromViper() ConnOptions {
	return ConnOptions{
		Filename:    viper.GetString("storage.database.filename"),
		JournalMode: viper.GetString("storage.database.journalmode"),
	}
}

// OpenConnection opens the sqlite database and applies all pending migrations. The pool is
// limited to a single connection, so that writers never compete for the database lock and an
// in-memory database is shared by all callers.
func OpenConnection(opts ConnOptions) (Conn, error) {
	sqliteVersion, _, _ := sqlite3.Version()

	dsn := createDataSourceName(opts)
	log.Info().
		Str("driver", driverName).
		Str("version", sqliteVersion).
		Str("dataSourceName", dsn).
		Msg("connecting to database")

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	migrations, err := loadMigrations()
	if err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}

	n, err := migrate.Exec(db.DB, driverName, migrations, migrate.Up)
	if err != nil {
		db.Close() // nolint:errcheck
		return nil, err
	}

	if n > 0 {
		log.Info().
			Int("migrations", n).
			Msg("database migrations applied")
	}

	return conn{db}, nil
}

func createDataSourceName(opts ConnOptions) string {
	query := make(url.Values)
	query.Add("_foreign_keys", "true")
	query.Add("_journal_mode", opts.JournalMode)

	dsn := url.URL{
		Scheme:   "file",
		Opaque:   opts.Filename,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func loadMigrations() (migrate.MigrationSource, error) {
	box, err := rice.FindBox("../../migrations")
	if err != nil {
		return nil, err
	}

	source := migrate.HttpFileSystemMigrationSource{
		FileSystem: box.HTTPBox(),
	}

	return &source, nil
}
