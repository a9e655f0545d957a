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
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/normalize"
	"github.com/music-registry/reconcile/pkg/similarity"
)

// MatchFuzzy compares the normalized raw label against every candidate key.
// The best ratio must reach threshold and be unique; equal best ratios make
// the result ambiguous.
func MatchFuzzy(raw string, pool *catalog.Pool, threshold float64) Result {
	if pool.Len() == 0 {
		return NoMatch()
	}

	key := pool.KeyFunc()(raw)
	if key == "" {
		return NoMatch()
	}

	best := -1.0
	var tied []catalog.Candidate
	for _, c := range pool.Candidates() {
		ratio := similarity.Ratio(key, c.Key)
		switch {
		case ratio > best+scoreEpsilon:
			best = ratio
			tied = append(tied[:0], c)
		case ratio >= best-scoreEpsilon:
			tied = append(tied, c)
		}
	}

	if best < threshold {
		return NoMatch()
	}
	if len(tied) > 1 {
		return Result{
			Outcome:    OutcomeAmbiguous,
			Method:     MethodFuzzy,
			Candidates: tied,
			Confidence: best,
			Score:      best,
		}
	}
	return Result{
		Outcome:    OutcomeMatched,
		Method:     MethodFuzzy,
		Candidate:  tied[0],
		Canonical:  tied[0].Name,
		Confidence: best,
		Score:      best,
	}
}

// MatchParts scores candidates by shared tokens. A candidate sharing no token
// with the raw label is never considered. Leftover tokens earn partial credit
// for near misses and token count differences are penalized.
func MatchParts(raw string, pool *catalog.Pool, params Params) Result {
	if pool.Len() == 0 {
		return NoMatch()
	}

	tokens := normalize.Tokens(pool.KeyFunc()(raw))
	if len(tokens) == 0 {
		return NoMatch()
	}

	best := 0.0
	var tied []catalog.Candidate
	var bestSize int
	for _, c := range pool.Candidates() {
		score, ok := partsScore(tokens, c.Tokens, params)
		if !ok {
			continue
		}
		switch {
		case tied == nil || score > best+scoreEpsilon:
			best = score
			tied = []catalog.Candidate{c}
			bestSize = max(len(tokens), len(c.Tokens))
		case score >= best-scoreEpsilon:
			tied = append(tied, c)
		}
	}

	if tied == nil || best <= params.MinScore {
		return NoMatch()
	}
	if len(tied) > 1 {
		return Result{
			Outcome:    OutcomeAmbiguous,
			Method:     MethodParts,
			Candidates: tied,
			Score:      best,
		}
	}

	confidence := 1.0
	if denom := params.ExactWeight * float64(bestSize); denom > 0 {
		confidence = clamp01(best / denom)
	}
	return Result{
		Outcome:    OutcomeMatched,
		Method:     MethodParts,
		Candidate:  tied[0],
		Canonical:  tied[0].Name,
		Confidence: confidence,
		Score:      best,
	}
}

// partsScore returns false when a and b share no token.
func partsScore(a, b []string, params Params) (float64, bool) {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}

	common := make(map[string]struct{})
	var restA []string
	for _, t := range a {
		if _, ok := inB[t]; ok {
			common[t] = struct{}{}
		} else {
			restA = append(restA, t)
		}
	}
	if len(common) == 0 {
		return 0, false
	}

	var restB []string
	for _, t := range b {
		if _, ok := common[t]; !ok {
			restB = append(restB, t)
		}
	}

	score := params.ExactWeight * float64(len(common))
	if len(restB) > 0 {
		for _, ta := range restA {
			bestRatio := 0.0
			for _, tb := range restB {
				bestRatio = max(bestRatio, similarity.Ratio(ta, tb))
			}
			if bestRatio > params.PartRatio {
				score += params.FuzzyWeight * bestRatio
			}
		}
	}

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	score -= params.LengthPenalty * float64(diff)

	return score, true
}
