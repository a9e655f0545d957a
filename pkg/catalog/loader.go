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

package catalog

import (
	"fmt"

	"github.com/music-registry/reconcile/pkg/dataset"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Source describes where a catalog is read from. Empty IDField defaults to
// "pk" and empty NameField to "name".
type Source struct {
	Path      string
	Format    dataset.Format
	IDField   string
	NameField string
}

// ReadEntries loads the entries of a catalog source. Rows without a name are
// skipped; rows without an id get their line number.
func ReadEntries(fs afero.Fs, src Source) ([]Entry, error) {
	rows, err := dataset.ReadRows(fs, src.Path, src.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	idField := src.IDField
	if idField == "" {
		idField = "pk"
	}
	nameField := src.NameField
	if nameField == "" {
		nameField = "name"
	}

	entries := make([]Entry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		name := row.Get(nameField)
		if name == "" {
			skipped++
			continue
		}
		id := row.Get(idField)
		if id == "" {
			id = fmt.Sprintf("row-%d", row.Line)
		}
		entries = append(entries, Entry{ID: id, Name: name})
	}

	if skipped > 0 {
		log.Warn().Str("path", src.Path).Int("skipped", skipped).Msg("catalog rows without a name")
	}
	return entries, nil
}

// LoadFile reads a catalog source into a pool of the given kind.
func LoadFile(fs afero.Fs, kind Kind, src Source) (*Pool, error) {
	entries, err := ReadEntries(fs, src)
	if err != nil {
		return nil, err
	}

	pool := NewPool(kind, entries)
	if dups := pool.Duplicates(); len(dups) > 0 {
		log.Warn().Str("kind", string(kind)).Strs("keys", dups).Msg("duplicate catalog keys")
	}
	log.Info().Str("kind", string(kind)).Str("path", src.Path).Int("candidates", pool.Len()).
		Msg("loaded catalog")
	return pool, nil
}
