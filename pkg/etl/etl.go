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


// Package etl runs the batch import jobs: each job reads rows from an
// export, resolves the raw labels in them against the catalogs and turns
// the row into assignments for the registry store.
package etl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/audit"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/dataset"
	"github.com/music-registry/reconcile/pkg/matcher"
	"github.com/music-registry/reconcile/pkg/normalize"
	"github.com/music-registry/reconcile/pkg/resolver"
)

var ErrUnknownJob = errors.New("unknown job")

// Status is the outcome of a single row. A row takes the worst status of
// the labels it resolved.
type Status int

const (
	StatusMatched Status = iota
	StatusAmbiguous
	StatusUnmatched
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusAmbiguous:
		return "ambiguous"
	case StatusUnmatched:
		return "unmatched"
	case StatusSkipped:
		return "skipped"
	default:
		return "matched"
	}
}

// Job turns input rows into assignments. Kinds lists the catalogs the job
// cannot run without; the subject catalog is always optional.
type Job interface {
	Name() string
	Kinds() []catalog.Kind
	Handle(env *Env, row dataset.Row) error
}

var jobs = map[string]Job{
	JobSchedules:   schedulesJob{},
	JobEnsembles:   ensemblesJob{},
	JobTutors:      tutorsJob{},
	JobInstruments: instrumentsJob{},
}

// Lookup returns the job registered under name.
func Lookup(name string) (Job, error) {
	job, ok := jobs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return job, nil
}

// JobNames lists the registered jobs in alphabetical order.
func JobNames() []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggestions is how many close candidates are offered for an unmatched
// label.
const suggestions = 3

const suggestMinSimilarity = 0.7

// Env is what a job sees while handling rows. It collects the resolutions
// and assignments of the run, the audit lines, and the status of the row
// being handled.
type Env struct {
	out         io.Writer
	audit       *audit.Recorder
	resolvers   map[catalog.Kind]*resolver.Resolver
	aliases     aliases.Set
	runID       string
	job         string
	resolutions []database.Resolution
	assignments []database.Assignment
	row         dataset.Row
	status      Status
}

func newEnv(
	runID string,
	job string,
	set aliases.Set,
	resolvers map[catalog.Kind]*resolver.Resolver,
	rec *audit.Recorder,
	out io.Writer,
) *Env {
	if out == nil {
		out = io.Discard
	}
	return &Env{
		out:       out,
		audit:     rec,
		resolvers: resolvers,
		aliases:   set,
		runID:     runID,
		job:       job,
	}
}

func (e *Env) begin(row dataset.Row) {
	e.row = row
	e.status = StatusMatched
}

func (e *Env) mark(s Status) {
	if s > e.status {
		e.status = s
	}
}

// Aliases returns the alias tables of the run.
func (e *Env) Aliases() aliases.Set {
	return e.aliases
}

// Warnf prints a warning for the current row to the console.
func (e *Env) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, "  row %d: %s\n", e.row.Line, fmt.Sprintf(format, args...))
}

// Skip drops the current row and records why under c.
func (e *Env) Skip(c audit.Category, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.audit.Addf(c, "row %d: %s", e.row.Line, msg)
	e.Warnf("%s, skipping", msg)
	e.mark(StatusSkipped)
}

// Ignore drops the current row without an audit line, for header rows
// repeated inside an export.
func (e *Env) Ignore() {
	e.mark(StatusSkipped)
}

// Resolve matches text against the catalog of kind and records the
// resolution. Unmatched labels are written to the audit log with the
// closest candidates; ambiguous ones list the tied candidates.
func (e *Env) Resolve(kind catalog.Kind, text string) matcher.Result {
	r, ok := e.resolvers[kind]
	if !ok {
		return matcher.NoMatch()
	}

	res := r.Resolve(resolver.Label{Text: text, Source: e.job, Kind: kind, Row: e.row.Line})
	e.record(kind, text, r.Pool().KeyFunc()(text), res)

	switch res.Outcome {
	case matcher.OutcomeMatched:
	case matcher.OutcomeAmbiguous:
		names := make([]string, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			names = append(names, c.Name)
		}
		e.audit.Addf(audit.AmbiguousMatches, "%s %q (row %d): %s",
			kind, strings.TrimSpace(text), e.row.Line, strings.Join(names, " | "))
		e.Warnf("%s %q is ambiguous between %d candidates", kind, strings.TrimSpace(text), len(names))
		e.mark(StatusAmbiguous)
	default:
		line := strings.TrimSpace(text)
		hints := matcher.Suggest(text, r.Pool(), suggestions, suggestMinSimilarity)
		if len(hints) > 0 {
			names := make([]string, 0, len(hints))
			for _, h := range hints {
				names = append(names, h.Candidate.Name)
			}
			line = fmt.Sprintf("%s (closest: %s)", line, strings.Join(names, ", "))
		}
		e.audit.Add(audit.Unmatched(kind), line)
		e.Warnf("%s %q not found", kind, strings.TrimSpace(text))
		e.mark(StatusUnmatched)
	}
	return res
}

// Subject returns the canonical subject name for raw. When a subject
// catalog is loaded the name must also resolve against it; otherwise the
// alias table and title casing decide the name alone.
func (e *Env) Subject(raw string) (string, bool) {
	name := e.aliases.CanonicalSubject(raw)
	if name == "" {
		return "", false
	}
	if _, ok := e.resolvers[catalog.KindSubject]; !ok {
		return name, true
	}
	res := e.Resolve(catalog.KindSubject, name)
	if !res.Matched() {
		return name, false
	}
	return res.Candidate.Name, true
}

// Assign records an assignment for the current row.
func (e *Env) Assign(a database.Assignment) {
	a.RunID = e.runID
	a.Job = e.job
	a.Row = e.row.Line
	e.assignments = append(e.assignments, a)
}

func (e *Env) record(kind catalog.Kind, raw, key string, res matcher.Result) {
	out := database.Resolution{
		RunID:      e.runID,
		Kind:       string(kind),
		RawLabel:   strings.TrimSpace(raw),
		NameKey:    key,
		Outcome:    string(res.Outcome),
		Method:     string(res.Method),
		Row:        e.row.Line,
		Confidence: res.Confidence,
	}
	if res.Matched() {
		out.Canonical = res.Canonical
		if out.Canonical == "" {
			out.Canonical = res.Candidate.Name
		}
		out.CandidateID = res.Candidate.ID
	}
	e.resolutions = append(e.resolutions, out)
}

// keyOf is the comparison key used for header and sentinel checks.
func keyOf(s string) string {
	return normalize.Key(s)
}
