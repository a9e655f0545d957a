// Zaparoo Core
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Core.
//
// Zaparoo Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Core.  If not, see <http://www.gnu.org/licenses/>.

// Package registrydb is the SQLite store for catalog snapshots and the
// results of reconciliation runs.
package registrydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/music-registry/reconcile/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("RegistryDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=ON"

type RegistryDB struct {
	sql  *sql.DB
	path string
}

var _ database.RegistryDBI = (*RegistryDB)(nil)

// Open opens the store at path, creating it and applying migrations as
// needed.
func Open(ctx context.Context, path string) (*RegistryDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &RegistryDB{sql: sqlInstance, path: path}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

func (db *RegistryDB) Path() string {
	return db.path
}

func (db *RegistryDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *RegistryDB) UpsertEntities(ctx context.Context, entities []database.Entity) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpsertEntities(ctx, db.sql, entities)
}

func (db *RegistryDB) Entities(ctx context.Context, kind string) ([]database.Entity, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlEntities(ctx, db.sql, kind)
}

// CommitRun stores a run with all of its resolutions and assignments in a
// single transaction. On any error nothing is written.
func (db *RegistryDB) CommitRun(
	ctx context.Context,
	run database.Run,
	resolutions []database.Resolution,
	assignments []database.Assignment,
) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlCommitRun(ctx, db.sql, run, resolutions, assignments)
}

// Runs lists past runs, most recent first.
func (db *RegistryDB) Runs(ctx context.Context) ([]database.Run, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlRuns(ctx, db.sql)
}

func (db *RegistryDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// The schema is migrated when migrate is true; pass false for sqlmock.
func (db *RegistryDB) SetSQLForTesting(sqlDB *sql.DB, migrate bool) error {
	db.sql = sqlDB
	if !migrate {
		return nil
	}
	return db.MigrateUp()
}
