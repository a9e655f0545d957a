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

// Package matcher scores raw labels against a candidate pool, either by
// whole-string similarity or by shared name parts.
package matcher

import (
	"github.com/music-registry/reconcile/pkg/catalog"
)

type Outcome string

const (
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeMatched   Outcome = "matched"
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Method records which strategy produced a result.
type Method string

const (
	MethodNone  Method = ""
	MethodAlias Method = "alias"
	MethodFuzzy Method = "fuzzy"
	MethodParts Method = "parts"
)

// scoreEpsilon bounds float noise when comparing scores for ties.
const scoreEpsilon = 1e-9

// Result is the outcome of matching one label. Candidate is set only when
// Outcome is OutcomeMatched; Candidates holds the tied entries of an
// ambiguous result.
type Result struct {
	Outcome    Outcome
	Method     Method
	Canonical  string
	Candidate  catalog.Candidate
	Candidates []catalog.Candidate
	Confidence float64
	Score      float64
}

func (r Result) Matched() bool {
	return r.Outcome == OutcomeMatched
}

func (r Result) Ambiguous() bool {
	return r.Outcome == OutcomeAmbiguous
}

// NoMatch is the zero-confidence result.
func NoMatch() Result {
	return Result{Outcome: OutcomeNoMatch}
}

// Params are the tunables of both matching modes.
type Params struct {
	// MinScore is the parts score the best candidate must strictly exceed.
	MinScore float64
	// PartRatio is the similarity a leftover token must strictly exceed to
	// earn fuzzy credit.
	PartRatio     float64
	ExactWeight   float64
	FuzzyWeight   float64
	LengthPenalty float64
	// FuzzyThreshold is the minimum whole-string ratio for MatchFuzzy.
	FuzzyThreshold float64
}

func DefaultParams() Params {
	return Params{
		MinScore:       10,
		PartRatio:      0.7,
		ExactWeight:    10,
		FuzzyWeight:    5,
		LengthPenalty:  2,
		FuzzyThreshold: 0.6,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
