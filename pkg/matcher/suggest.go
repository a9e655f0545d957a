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

package matcher

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Suggestion is a close candidate offered to a reviewer for a label that
// could not be matched.
type Suggestion struct {
	Candidate  catalog.Candidate
	Similarity float32
	Distance   int
}

// Suggest returns up to n candidates whose keys are close to raw. Candidates
// are ranked by Jaro-Winkler similarity, which favours matching prefixes, and
// the top n are then re-ranked by Damerau-Levenshtein distance so swapped
// letters ("Garica" for "Garcia") land first.
func Suggest(raw string, pool *catalog.Pool, n int, minSimilarity float32) []Suggestion {
	if n <= 0 || pool.Len() == 0 {
		return nil
	}

	key := pool.KeyFunc()(raw)
	if key == "" {
		return nil
	}

	var matches []Suggestion
	for _, c := range pool.Candidates() {
		sim := edlib.JaroWinklerSimilarity(key, c.Key)
		if sim < minSimilarity {
			continue
		}
		matches = append(matches, Suggestion{Candidate: c, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	matches = rerankByDistance(key, matches, n)
	if len(matches) > n {
		matches = matches[:n]
	}

	if len(matches) > 0 {
		log.Debug().
			Str("label", raw).
			Str("best", matches[0].Candidate.Name).
			Float32("similarity", matches[0].Similarity).
			Msg("suggestions for unmatched label")
	}
	return matches
}

// rerankByDistance sorts the first topN matches by Damerau-Levenshtein
// distance, keeping Jaro-Winkler order between equal distances.
func rerankByDistance(key string, matches []Suggestion, topN int) []Suggestion {
	if len(matches) == 0 {
		return matches
	}

	top := matches
	if topN > 0 && len(matches) > topN {
		top = matches[:topN]
	}
	for i := range top {
		top[i].Distance = edlib.DamerauLevenshteinDistance(key, top[i].Candidate.Key)
	}
	if len(top) == 1 {
		return top
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Distance < top[j].Distance
	})
	return top
}
