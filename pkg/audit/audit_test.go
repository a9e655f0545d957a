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

package audit

import (
	"path/filepath"
	"testing"

	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderDeduplicates(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Add(UnmatchedTeachers, "Ana Garcia")
	r.Add(UnmatchedTeachers, "  Ana Garcia ")
	r.Add(UnmatchedTeachers, "")
	r.Addf(Inconsistencies, "row %d: empty subject", 4)

	assert.Equal(t, []string{"Ana Garcia"}, r.Lines(UnmatchedTeachers))
	assert.Equal(t, []string{"row 4: empty subject"}, r.Lines(Inconsistencies))
	assert.Equal(t, 2, r.Total())

	counts := r.Counts()
	assert.Len(t, counts, len(Categories()))
	assert.Equal(t, 1, counts[UnmatchedTeachers])
	assert.Zero(t, counts[AmbiguousMatches])
}

func TestSortLines(t *testing.T) {
	t.Parallel()

	lines := []string{"Zoila", "álvaro", "Beatriz", "Alvaro", "ana"}
	SortLines(lines)
	assert.Equal(t, []string{"Alvaro", "álvaro", "ana", "Beatriz", "Zoila"}, lines)
}

func TestUnmatched(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UnmatchedTeachers, Unmatched(catalog.KindTeacher))
	assert.Equal(t, UnmatchedStudents, Unmatched(catalog.KindStudent))
	assert.Equal(t, UnmatchedSubjects, Unmatched(catalog.KindSubject))
}

func TestFlush(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	dir := "/logs"

	stale := filepath.Join(dir, AmbiguousMatches.FileName())
	require.NoError(t, afero.WriteFile(fs, stale, []byte("old\n"), 0o644))
	previous := filepath.Join(dir, UnmatchedStudents.FileName())
	require.NoError(t, afero.WriteFile(fs, previous, []byte("older run\n"), 0o644))

	r := NewRecorder()
	r.Add(UnmatchedStudents, "Zoila Vera")
	r.Add(UnmatchedStudents, "Ángel Mora")
	r.Add(GradeParseFailures, "row 3: curso='Preparatorio'")

	paths, err := r.Flush(fs, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		previous,
		filepath.Join(dir, GradeParseFailures.FileName()),
	}, paths)

	data, err := afero.ReadFile(fs, previous)
	require.NoError(t, err)
	assert.Equal(t, "Ángel Mora\nZoila Vera\n", string(data))

	exists, err := afero.Exists(fs, stale)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFlushEmptyRecorder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	paths, err := NewRecorder().Flush(fs, "/logs")
	require.NoError(t, err)
	assert.Empty(t, paths)

	exists, err := afero.DirExists(fs, "/logs")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWriteLines(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, WriteLines(fs, "/out/x/empty.txt", nil))

	data, err := afero.ReadFile(fs, "/out/x/empty.txt")
	require.NoError(t, err)
	assert.Empty(t, data)
}
