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


package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/etl"
	"github.com/music-registry/reconcile/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNoStore = errors.New("store not available in this test")

func newTestApp(t *testing.T, db database.RegistryDBI) (*App, *bytes.Buffer) {
	t.Helper()

	h, cfg, err := helpers.SetupRegistryWorkspace("/work", "/cfg")
	require.NoError(t, err)

	var out bytes.Buffer
	app := &App{
		Fs:    h.Fs,
		Cfg:   cfg,
		Out:   &out,
		Clock: clockwork.NewFakeClock(),
		OpenDB: func(context.Context) (database.RegistryDBI, error) {
			if db == nil {
				return nil, errNoStore
			}
			return db, nil
		},
	}
	return app, &out
}

func parse(t *testing.T, args ...string) *Flags {
	t.Helper()

	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	flags := SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	return flags
}

func TestExecuteVersion(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, nil)
	require.NoError(t, parse(t, "-version").Execute(context.Background(), app))
	assert.Equal(t, "reconcile vDEVELOPMENT\n", out.String())
}

func TestExecuteNoAction(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, nil)
	err := parse(t).Execute(context.Background(), app)
	require.ErrorIs(t, err, ErrNoAction)
}

func TestExecuteGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "ordinal with bachillerato",
			args: []string{"-grade", "11o (3o Bachillerato)", "-section", "B (vespertina)"},
			want: "level:   11\nsection: B\nkey:     11-B\n",
		},
		{
			name: "no section",
			args: []string{"-grade", "Octavo"},
			want: "level:   8\nsection: \n",
		},
		{
			name: "unknown course",
			args: []string{"-grade", "Taller libre", "-section", "A"},
			want: "level:   (not recognized)\nsection: A\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, out := newTestApp(t, nil)
			require.NoError(t, parse(t, tt.args...).Execute(context.Background(), app))
			assert.Equal(t, tt.want, out.String())
		})
	}

	app, _ := newTestApp(t, nil)
	assert.Error(t, parse(t, "-grade", " ").Execute(context.Background(), app))
}

func TestExecuteMatchFromCatalogFile(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, nil)
	err := parse(t, "-match", "Garcia Mora Ana Sofia", "-kind", "student").Execute(context.Background(), app)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "outcome:    matched (parts)\n")
	assert.Contains(t, out.String(), "canonical:  Ana Sofia Garcia Mora\n")
	assert.Contains(t, out.String(), "id:         s1\n")
	assert.Contains(t, out.String(), "confidence: 1.00\n")
}

func TestExecuteMatchFromStore(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockRegistryDBI()
	db.On("Entities", mock.Anything, string(catalog.KindSubject)).Return([]database.Entity{
		{Kind: "subject", ExternalID: "M1", Name: "Coro", NameKey: "coro"},
	}, nil)
	db.On("Close").Return(nil)

	app, out := newTestApp(t, db)
	err := parse(t, "-match", "Coro Vespertino", "-kind", "subject").Execute(context.Background(), app)
	require.NoError(t, err)
	db.AssertExpectations(t)

	assert.Contains(t, out.String(), "outcome:    matched (alias)\n")
	assert.Contains(t, out.String(), "id:         M1\n")
}

func TestExecuteMatchErrors(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, nil)
	err := parse(t, "-match", "Ana", "-kind", "janitor").Execute(context.Background(), app)
	require.ErrorIs(t, err, catalog.ErrUnknownKind)

	err = parse(t, "-match", "Coro", "-kind", "subject").Execute(context.Background(), app)
	require.ErrorIs(t, err, errNoStore)
}

func TestExecuteMatchNoMatch(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, nil)
	err := parse(t, "-match", "Pedro Zambrano").Execute(context.Background(), app)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "outcome:    no_match\n")
}

func TestExecuteJobDryRun(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, nil)
	err := parse(t,
		"-job", "tutors",
		"-input", filepath.Join("/work", helpers.TutorsInput),
		"-dry-run",
	).Execute(context.Background(), app)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "--- Finished tutors: 2 rows")
	assert.Contains(t, out.String(), "Dry run: nothing was written")
}

func TestExecuteJobCommits(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockRegistryDBI()
	db.On("Entities", mock.Anything, string(catalog.KindSubject)).Return(nil, nil)
	db.On("CommitRun", mock.Anything, helpers.RunMatcher(etl.JobTutors), mock.Anything, mock.Anything).
		Return(nil)
	db.On("Close").Return(nil)

	app, _ := newTestApp(t, db)
	err := parse(t, "-job", "tutors", "-input", filepath.Join("/work", helpers.TutorsInput)).
		Execute(context.Background(), app)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestExecuteJobErrors(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, nil)
	err := parse(t, "-job", "payroll").Execute(context.Background(), app)
	require.ErrorIs(t, err, etl.ErrUnknownJob)
	assert.Contains(t, err.Error(), "ensembles, instruments, schedules, tutors")

	err = parse(t, "-job", "tutors", "-input", "/work/nope.json").Execute(context.Background(), app)
	require.ErrorIs(t, err, errNoStore)
}

func TestExecuteImportCatalog(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockRegistryDBI()
	db.On("UpsertEntities", mock.Anything, mock.MatchedBy(func(es []database.Entity) bool {
		return len(es) == 7
	})).Return(nil)
	db.On("Close").Return(nil)

	app, out := newTestApp(t, db)
	require.NoError(t, parse(t, "-import-catalog").Execute(context.Background(), app))
	db.AssertExpectations(t)

	assert.Contains(t, out.String(), "imported 3 student entries\n")
	assert.Contains(t, out.String(), "imported 4 teacher entries\n")
}

func TestExecuteNormalize(t *testing.T) {
	t.Parallel()

	app, out := newTestApp(t, nil)
	require.NoError(t, parse(t, "-normalize-out", "/out").Execute(context.Background(), app))

	assert.Contains(t, out.String(), "normalized: /out/horarios_academicos/REPORTE_DOCENTES_HORARIOS.json\n")
	assert.Contains(t, out.String(), "copied:     /out/personal_docente/REPORTE_TUTORES_CURSOS.json\n")
	assert.Contains(t, out.String(), "OK: normalized datasets written to /out\n")
}
