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

// Package aliases loads the hand-curated alias tables that map known label
// variants to their canonical spelling.
package aliases

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/music-registry/reconcile/pkg/normalize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SubjectsFile = "subjects_aliases.json"
	TeachersFile = "teachers_aliases.json"
)

// Table maps normalized keys to canonical names. It is immutable once built.
type Table struct {
	entries map[string]string
	keyFn   normalize.KeyFunc
}

// NewTable builds a table from raw variant → canonical pairs. Keys are
// normalized with keyFn and values trimmed; pairs with an empty side after
// that are dropped. On key collisions the lexically smallest variant wins.
func NewTable(raw map[string]string, keyFn normalize.KeyFunc) Table {
	if keyFn == nil {
		keyFn = normalize.Key
	}

	entries := make(map[string]string, len(raw))
	winners := make(map[string]string, len(raw))
	for variant, canonical := range raw {
		key := keyFn(variant)
		value := strings.TrimSpace(canonical)
		if key == "" || value == "" {
			continue
		}
		if prev, ok := winners[key]; ok && prev <= variant {
			continue
		}
		winners[key] = variant
		entries[key] = value
	}

	return Table{entries: entries, keyFn: keyFn}
}

// Load reads a JSON object of variant → canonical pairs. A missing file
// yields an empty table; malformed JSON is an error.
func Load(fs afero.Fs, path string, keyFn normalize.KeyFunc) (Table, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("alias file not found, using empty table")
		return NewTable(nil, keyFn), nil
	} else if err != nil {
		return Table{}, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("failed to parse alias file %s: %w", path, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		log.Warn().Str("path", path).Msg("alias file is not a JSON object, ignoring")
		return NewTable(nil, keyFn), nil
	}

	raw := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			log.Warn().Str("path", path).Str("alias", k).Msg("alias value is not a string, ignoring")
			continue
		}
		raw[k] = s
	}

	t := NewTable(raw, keyFn)
	log.Info().Str("path", path).Int("aliases", t.Len()).Msg("loaded alias table")
	return t, nil
}

// Resolve looks up an already normalized key.
func (t Table) Resolve(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Lookup normalizes raw with the table's key function and resolves it.
func (t Table) Lookup(raw string) (string, bool) {
	return t.Resolve(t.Key(raw))
}

// Key normalizes raw the way the table's keys were built.
func (t Table) Key(raw string) string {
	if t.keyFn == nil {
		return normalize.Key(raw)
	}
	return t.keyFn(raw)
}

func (t Table) Len() int {
	return len(t.entries)
}

// Set holds the subject and teacher tables. They never reference each other.
type Set struct {
	Subjects Table
	Teachers Table
}

// LoadDir loads both alias tables from mappingsDir.
func LoadDir(fs afero.Fs, mappingsDir string) (Set, error) {
	subjects, err := Load(fs, filepath.Join(mappingsDir, SubjectsFile), normalize.Key)
	if err != nil {
		return Set{}, err
	}
	teachers, err := Load(fs, filepath.Join(mappingsDir, TeachersFile), normalize.PersonKey)
	if err != nil {
		return Set{}, err
	}
	return Set{Subjects: subjects, Teachers: teachers}, nil
}

// CanonicalSubject returns the alias for raw, or raw title-cased when no alias
// exists.
func (s Set) CanonicalSubject(raw string) string {
	if v, ok := s.Subjects.Lookup(raw); ok {
		return v
	}
	return normalize.SmartTitle(normalize.CollapseSpaces(raw))
}

// CanonicalTeacher returns the alias for raw, or the cleaned display name.
func (s Set) CanonicalTeacher(raw string) string {
	name := normalize.PersonName(raw)
	if v, ok := s.Teachers.Lookup(name); ok {
		return v
	}
	return name
}
