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
	"context"
	"path/filepath"
	"testing"

	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemoryRegistryDB(t *testing.T) {
	t.Parallel()

	db, cleanup := NewInMemoryRegistryDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.UpsertEntities(ctx, fixtures.Entities))

	got, err := db.Entities(ctx, "teacher")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Juan Carlos Perez Lopez", got[0].Name)
	assert.NotZero(t, got[0].DBID)
}

func TestSetupRegistryWorkspace(t *testing.T) {
	t.Parallel()

	h, cfg, err := SetupRegistryWorkspace("/work", "/cfg")
	require.NoError(t, err)

	assert.True(t, h.FileExists(filepath.Join("/work", SchedulesInput)))
	assert.True(t, h.FileExists(filepath.Join("/cfg", config.CfgFile)))
	assert.Equal(t, filepath.Join("/work", config.MappingsDir), cfg.MappingsDir())

	src, ok := cfg.CatalogSource(catalog.KindTeacher)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/work", TeachersCatalog), src.Path)

	_, ok = cfg.CatalogSource(catalog.KindSubject)
	assert.False(t, ok)
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	h := NewMemoryFS()
	require.NoError(t, h.WriteFile("/logs/a.log", []byte("one\n\ntwo\n")))

	lines, err := h.ReadLines("/logs/a.log")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	names, err := h.ListFiles("/logs")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log"}, names)

	_, err = h.ReadLines("/logs/missing.log")
	assert.Error(t, err)
}
