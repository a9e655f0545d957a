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

package config

import (
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/dataset"
)

type Catalog struct {
	Teachers CatalogSource `toml:"teachers,omitempty"`
	Students CatalogSource `toml:"students,omitempty"`
	Subjects CatalogSource `toml:"subjects,omitempty"`
}

type CatalogSource struct {
	Path      string `toml:"path,omitempty"`
	Format    string `toml:"format,omitempty" validate:"omitempty,oneof=json jsonl csv xlsx"`
	IDField   string `toml:"id_field,omitempty"`
	NameField string `toml:"name_field,omitempty"`
}

func (c *Catalog) source(kind catalog.Kind) CatalogSource {
	switch kind {
	case catalog.KindStudent:
		return c.Students
	case catalog.KindSubject:
		return c.Subjects
	default:
		return c.Teachers
	}
}

// CatalogSource returns where the catalog of kind is read from. It reports
// false when no path is configured.
func (c *Instance) CatalogSource(kind catalog.Kind) (catalog.Source, bool) {
	c.mu.RLock()
	src := c.vals.Catalog.source(kind)
	c.mu.RUnlock()

	if src.Path == "" {
		return catalog.Source{}, false
	}
	return catalog.Source{
		Path:      c.resolve(src.Path, ""),
		Format:    dataset.Format(src.Format),
		IDField:   src.IDField,
		NameField: src.NameField,
	}, true
}
