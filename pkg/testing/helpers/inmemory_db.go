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


package helpers

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/music-registry/reconcile/pkg/database/registrydb"
	_ "github.com/mattn/go-sqlite3"
)

// NewInMemoryRegistryDB opens a migrated registry store backed by a file in
// the test's temp dir, so it survives closing and reopening connections.
func NewInMemoryRegistryDB(t *testing.T) (db *registrydb.RegistryDB, cleanup func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "registry_test.db")
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db = &registrydb.RegistryDB{}
	err = db.SetSQLForTesting(sqlDB, true)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up RegistryDB for testing: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close RegistryDB: %v", err)
		}
	}

	return db, cleanup
}
