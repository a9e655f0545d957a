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

package aliases

import (
	"path/filepath"
	"testing"

	"github.com/music-registry/reconcile/pkg/normalize"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]string{
		"  Teoría   Musical ": "Teoría y Solfeo ",
		"":                    "Ignored",
		"Piano":               "   ",
		"CORO":                "Coro Institucional",
	}, normalize.Key)

	assert.Equal(t, 2, table.Len())

	v, ok := table.Resolve("teoria musical")
	require.True(t, ok)
	assert.Equal(t, "Teoría y Solfeo", v)

	v, ok = table.Lookup("coro")
	require.True(t, ok)
	assert.Equal(t, "Coro Institucional", v)

	_, ok = table.Lookup("Piano")
	assert.False(t, ok)
}

func TestNewTableCollisionIsDeterministic(t *testing.T) {
	t.Parallel()

	for range 20 {
		table := NewTable(map[string]string{
			"Coro":  "First",
			"CORO":  "Second",
			"coro ": "Third",
		}, normalize.Key)
		v, ok := table.Resolve("coro")
		require.True(t, ok)
		assert.Equal(t, "Second", v)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		write   bool
		wantLen int
		wantErr bool
	}{
		{name: "missing file", write: false, wantLen: 0},
		{name: "object", write: true, content: `{"Mgs. Ana Garcia": "Ana García", "Luis": "Luis Pérez"}`, wantLen: 2},
		{name: "non-object", write: true, content: `["a", "b"]`, wantLen: 0},
		{name: "non-string values", write: true, content: `{"a": 1, "b": "B"}`, wantLen: 1},
		{name: "malformed", write: true, content: `{"a": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			path := "/mappings/teachers_aliases.json"
			if tt.write {
				require.NoError(t, afero.WriteFile(fs, path, []byte(tt.content), 0o644))
			}

			table, err := Load(fs, path, normalize.PersonKey)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, table.Len())
		})
	}
}

func TestLoadUsesKeyFunction(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t.json", []byte(`{"Mgs. Ana Garcia": "Ana García"}`), 0o644))

	table, err := Load(fs, "/t.json", normalize.PersonKey)
	require.NoError(t, err)

	v, ok := table.Lookup("Dr. ANA GARCÍA")
	require.True(t, ok)
	assert.Equal(t, "Ana García", v)
}

func TestLoadDirKeepsTablesSeparate(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	dir := "/mappings"
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, SubjectsFile),
		[]byte(`{"Ana": "Subject Ana"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, TeachersFile),
		[]byte(`{"Lic. Ana": "Teacher Ana"}`), 0o644))

	set, err := LoadDir(fs, dir)
	require.NoError(t, err)

	v, ok := set.Subjects.Lookup("ANA")
	require.True(t, ok)
	assert.Equal(t, "Subject Ana", v)

	v, ok = set.Teachers.Lookup("ana")
	require.True(t, ok)
	assert.Equal(t, "Teacher Ana", v)
}

func TestLoadDirMalformedIsHardFailure(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/m/"+SubjectsFile, []byte(`{`), 0o644))

	_, err := LoadDir(fs, "/m")
	require.Error(t, err)
}

func TestCanonicalSubject(t *testing.T) {
	t.Parallel()

	set := Set{
		Subjects: NewTable(map[string]string{"Conj. Inst.": "Conjunto Instrumental"}, normalize.Key),
		Teachers: NewTable(nil, normalize.PersonKey),
	}

	assert.Equal(t, "Conjunto Instrumental", set.CanonicalSubject("CONJ.  INST."))
	assert.Equal(t, "Taller de Audio MIDI", set.CanonicalSubject("  taller   de audio MIDI "))
	assert.Empty(t, set.CanonicalSubject("   "))
}

func TestCanonicalTeacher(t *testing.T) {
	t.Parallel()

	set := Set{
		Subjects: NewTable(nil, normalize.Key),
		Teachers: NewTable(map[string]string{"Rafel Torres": "Rafael Torres Vega"}, normalize.PersonKey),
	}

	assert.Equal(t, "Rafael Torres Vega", set.CanonicalTeacher("Mgs. Rafael Torres"))
	assert.Equal(t, "Luis Pérez", set.CanonicalTeacher("Lic.  Luis.Pérez"))
	assert.Empty(t, set.CanonicalTeacher(""))
}
