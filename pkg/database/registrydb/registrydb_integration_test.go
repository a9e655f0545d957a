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

package registrydb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/music-registry/reconcile/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *RegistryDB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close registry db: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *RegistryDB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.sql.QueryRow("select count(*) from "+table).Scan(&n))
	return n
}

func TestIntegrationEntitiesUpsert(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	first := time.Unix(1767225600, 0)
	require.NoError(t, db.UpsertEntities(ctx, []database.Entity{
		{Kind: "teacher", ExternalID: "7", Name: "Ana Garcia", NameKey: "ana garcia", UpdatedAt: first},
		{Kind: "subject", ExternalID: "M1", Name: "Piano", NameKey: "piano", UpdatedAt: first},
	}))
	require.NoError(t, db.UpsertEntities(ctx, []database.Entity{
		{Kind: "teacher", ExternalID: "7", Name: "Ana García", NameKey: "ana garcia", UpdatedAt: first.Add(time.Hour)},
	}))

	teachers, err := db.Entities(ctx, "teacher")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Ana García", teachers[0].Name)
	assert.Equal(t, first.Add(time.Hour).Unix(), teachers[0].UpdatedAt.Unix())

	subjects, err := db.Entities(ctx, "subject")
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}

func TestIntegrationCommitRunIsAtomic(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	run, resolutions, assignments := sampleRun()
	require.NoError(t, db.CommitRun(ctx, run, resolutions, assignments))

	failing := run
	failing.ID = "run-2"
	failing.StartedAt = run.StartedAt.Add(time.Hour)
	bad := []database.Resolution{resolutions[0], resolutions[0]}
	bad[1].Outcome = "maybe"

	err := db.CommitRun(ctx, failing, bad, assignments)
	require.Error(t, err)

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 3, runs[0].Rows)
	assert.Equal(t, run.FinishedAt.Unix(), runs[0].FinishedAt.Unix())

	assert.Equal(t, 1, countRows(t, db, "Resolutions"))
	assert.Equal(t, 1, countRows(t, db, "Assignments"))
}

func TestIntegrationReopenKeepsSchema(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "registry.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	run, _, _ := sampleRun()
	require.NoError(t, db.CommitRun(ctx, run, nil, nil))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, path, db.Path())
}
