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

// Package resolver decides how a raw label maps onto the catalog: alias
// table first, then whole-string similarity, then shared name parts.
package resolver

import (
	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/matcher"
	"github.com/music-registry/reconcile/pkg/normalize"
)

// Label is a raw value pulled from an input row.
type Label struct {
	Text   string
	Source string
	Kind   catalog.Kind
	Row    int
}

// Resolver matches labels of a single kind. It is safe for concurrent use
// because nothing it holds is mutated after construction.
type Resolver struct {
	pool    *catalog.Pool
	aliases aliases.Table
	params  matcher.Params
}

func New(pool *catalog.Pool, table aliases.Table, params matcher.Params) *Resolver {
	return &Resolver{pool: pool, aliases: table, params: params}
}

func (r *Resolver) Pool() *catalog.Pool {
	return r.pool
}

func (r *Resolver) Params() matcher.Params {
	return r.params
}

// Resolve returns the best match for label. An alias hit always wins with
// full confidence. Otherwise a whole-string match is tried, then the parts
// matcher. When both fail an ambiguous outcome is preferred over a plain
// miss, so reviewers see the tied candidates.
func (r *Resolver) Resolve(label Label) matcher.Result {
	key := r.pool.KeyFunc()(label.Text)
	if key == "" {
		return matcher.NoMatch()
	}

	if canonical, ok := r.aliases.Lookup(label.Text); ok {
		return r.aliasResult(canonical)
	}

	fuzzy := matcher.MatchFuzzy(label.Text, r.pool, r.params.FuzzyThreshold)
	if fuzzy.Matched() {
		return fuzzy
	}

	parts := matcher.MatchParts(label.Text, r.pool, r.params)
	if parts.Matched() {
		return parts
	}

	switch {
	case parts.Ambiguous():
		return parts
	case fuzzy.Ambiguous():
		return fuzzy
	default:
		return matcher.NoMatch()
	}
}

func (r *Resolver) aliasResult(canonical string) matcher.Result {
	key := r.pool.KeyFunc()(canonical)
	candidate, ok := r.pool.ByKey(key)
	if !ok {
		candidate = catalog.Candidate{
			Name:   canonical,
			Key:    key,
			Kind:   r.pool.Kind(),
			Tokens: normalize.Tokens(key),
		}
	}
	return matcher.Result{
		Outcome:    matcher.OutcomeMatched,
		Method:     matcher.MethodAlias,
		Canonical:  canonical,
		Candidate:  candidate,
		Confidence: 1,
		Score:      1,
	}
}
