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
	"github.com/music-registry/reconcile/pkg/matcher"
)

// Matching holds a set of thresholds per entity kind. Students default to
// stricter values than teachers and subjects.
type Matching struct {
	Teachers MatchingParams `toml:"teachers"`
	Students MatchingParams `toml:"students"`
	Subjects MatchingParams `toml:"subjects"`
}

type MatchingParams struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold" validate:"gte=0,lte=1"`
	PartRatio      float64 `toml:"part_ratio" validate:"gte=0,lte=1"`
	MinPartsScore  float64 `toml:"min_parts_score" validate:"gte=0"`
	LengthPenalty  float64 `toml:"length_penalty" validate:"gte=0"`
}

// MatchParams returns the matcher tunables for kind. Token weights are not
// configurable.
func (c *Instance) MatchParams(kind catalog.Kind) matcher.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var mp MatchingParams
	switch kind {
	case catalog.KindStudent:
		mp = c.vals.Matching.Students
	case catalog.KindSubject:
		mp = c.vals.Matching.Subjects
	default:
		mp = c.vals.Matching.Teachers
	}

	params := matcher.DefaultParams()
	params.FuzzyThreshold = mp.FuzzyThreshold
	params.PartRatio = mp.PartRatio
	params.MinScore = mp.MinPartsScore
	params.LengthPenalty = mp.LengthPenalty
	return params
}

func (c *Instance) SetMatchParams(kind catalog.Kind, mp MatchingParams) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case catalog.KindStudent:
		c.vals.Matching.Students = mp
	case catalog.KindSubject:
		c.vals.Matching.Subjects = mp
	default:
		c.vals.Matching.Teachers = mp
	}
}
