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


package etl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/audit"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/dataset"
	"github.com/music-registry/reconcile/pkg/resolver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoCatalog = errors.New("no catalog loaded")
	ErrNoStore   = errors.New("registry store is not open")
)

// Summary is the console report of one run.
type Summary struct {
	Audit       map[audit.Category]int
	RunID       string
	Job         string
	Input       string
	LogPaths    []string
	Rows        int
	Matched     int
	Unmatched   int
	Ambiguous   int
	Skipped     int
	Assignments int
	DryRun      bool
}

func (s *Summary) count(st Status) {
	switch st {
	case StatusMatched:
		s.Matched++
	case StatusAmbiguous:
		s.Ambiguous++
	case StatusUnmatched:
		s.Unmatched++
	case StatusSkipped:
		s.Skipped++
	}
}

// Print writes the summary in the format operators review after a run.
func (s Summary) Print(w io.Writer) {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Finished %s: %d rows (run %s) ---\n", s.Job, s.Rows, s.RunID)
	fmt.Fprintf(&b, "  matched:     %d\n", s.Matched)
	fmt.Fprintf(&b, "  unmatched:   %d\n", s.Unmatched)
	fmt.Fprintf(&b, "  ambiguous:   %d\n", s.Ambiguous)
	fmt.Fprintf(&b, "  skipped:     %d\n", s.Skipped)
	fmt.Fprintf(&b, "  assignments: %d\n", s.Assignments)
	for _, p := range s.LogPaths {
		fmt.Fprintf(&b, "  audit log:   %s\n", p)
	}
	if s.DryRun {
		b.WriteString("Dry run: nothing was written to the registry store.\n")
	}
	_, _ = io.WriteString(w, b.String())
}

// Runner executes jobs against the configured catalogs and the registry
// store.
type Runner struct {
	fs     afero.Fs
	cfg    *config.Instance
	db     database.RegistryDBI
	clock  clockwork.Clock
	out    io.Writer
	dryRun bool
}

// NewRunner creates a runner. db may be nil for dry runs; a nil clock uses
// the real clock and a nil out discards console output.
func NewRunner(
	fs afero.Fs,
	cfg *config.Instance,
	db database.RegistryDBI,
	clock clockwork.Clock,
	out io.Writer,
) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		fs:    fs,
		cfg:   cfg,
		db:    db,
		clock: clock,
		out:   out,
	}
}

// SetDryRun makes runs resolve and audit without writing to the store.
func (r *Runner) SetDryRun(dryRun bool) {
	r.dryRun = dryRun
}

// Run processes every row of input with job. Row level problems are
// recorded to the audit logs; only unreadable input, missing catalogs and
// store failures return an error. The resolutions and assignments of the
// run are committed in a single transaction, so a failed commit leaves the
// store as it was.
func (r *Runner) Run(ctx context.Context, job Job, input string) (Summary, error) {
	if strings.TrimSpace(input) == "" {
		return Summary{}, dataset.ErrMissingInput
	}
	if !r.dryRun && r.db == nil {
		return Summary{}, ErrNoStore
	}

	startedAt := r.clock.Now()
	rows, err := dataset.ReadRows(r.fs, input, dataset.FormatAuto)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read input: %w", err)
	}

	set, resolvers, err := r.load(ctx, job)
	if err != nil {
		return Summary{}, err
	}

	runID := uuid.New().String()
	rec := audit.NewRecorder()
	env := newEnv(runID, job.Name(), set, resolvers, rec, r.out)
	sum := Summary{
		RunID:  runID,
		Job:    job.Name(),
		Input:  input,
		Rows:   len(rows),
		DryRun: r.dryRun,
	}

	log.Info().Str("job", job.Name()).Str("input", input).Str("run", runID).
		Int("rows", len(rows)).Msg("starting run")
	_, _ = fmt.Fprintf(r.out, "Starting %s import from %s (%d rows)...\n", job.Name(), input, len(rows))

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("run interrupted: %w", err)
		}
		env.begin(row)
		if err := job.Handle(env, row); err != nil {
			return sum, fmt.Errorf("failed to handle row %d: %w", row.Line, err)
		}
		sum.count(env.status)
		_, _ = fmt.Fprintf(r.out, "[%d/%d] row %d: %s\n", i+1, len(rows), row.Line, env.status)
	}
	sum.Assignments = len(env.assignments)
	sum.Audit = rec.Counts()

	paths, err := rec.Flush(r.fs, r.cfg.LogsDir())
	sum.LogPaths = paths
	if err != nil {
		return sum, fmt.Errorf("failed to write audit logs: %w", err)
	}

	if !r.dryRun {
		run := database.Run{
			ID:         runID,
			Job:        job.Name(),
			Input:      input,
			StartedAt:  startedAt,
			FinishedAt: r.clock.Now(),
			Rows:       sum.Rows,
			Matched:    sum.Matched,
			Unmatched:  sum.Unmatched,
			Ambiguous:  sum.Ambiguous,
			Skipped:    sum.Skipped,
		}
		if err := r.db.CommitRun(ctx, run, env.resolutions, env.assignments); err != nil {
			return sum, fmt.Errorf("failed to commit run: %w", err)
		}
	}

	log.Info().Str("run", runID).Int("matched", sum.Matched).Int("unmatched", sum.Unmatched).
		Int("ambiguous", sum.Ambiguous).Int("skipped", sum.Skipped).
		Dur("elapsed", r.clock.Since(startedAt)).Msg("finished run")
	sum.Print(r.out)
	return sum, nil
}

// load reads the alias tables and the catalogs the job needs concurrently.
// The subject catalog is loaded when available but never required.
func (r *Runner) load(
	ctx context.Context,
	job Job,
) (aliases.Set, map[catalog.Kind]*resolver.Resolver, error) {
	required := make(map[catalog.Kind]bool)
	kinds := make([]catalog.Kind, 0, len(job.Kinds())+1)
	for _, k := range job.Kinds() {
		required[k] = true
		kinds = append(kinds, k)
	}
	if !required[catalog.KindSubject] {
		kinds = append(kinds, catalog.KindSubject)
	}

	var set aliases.Set
	pools := make([]*catalog.Pool, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := aliases.LoadDir(r.fs, r.cfg.MappingsDir())
		if err != nil {
			return fmt.Errorf("failed to load aliases: %w", err)
		}
		set = s
		return nil
	})
	for i, kind := range kinds {
		g.Go(func() error {
			p, err := r.loadPool(gctx, kind)
			if err != nil {
				return fmt.Errorf("failed to load %s catalog: %w", kind, err)
			}
			pools[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return aliases.Set{}, nil, err
	}

	resolvers := make(map[catalog.Kind]*resolver.Resolver, len(kinds))
	for i, kind := range kinds {
		pool := pools[i]
		if pool.Len() == 0 {
			if required[kind] {
				return aliases.Set{}, nil, fmt.Errorf("%w: %s", ErrNoCatalog, kind)
			}
			continue
		}
		resolvers[kind] = resolver.New(pool, aliasTable(set, kind), r.cfg.MatchParams(kind))
	}
	return set, resolvers, nil
}

// loadPool prefers the configured catalog file and falls back to the
// snapshot kept in the store. It returns nil when neither exists.
func (r *Runner) loadPool(ctx context.Context, kind catalog.Kind) (*catalog.Pool, error) {
	if src, ok := r.cfg.CatalogSource(kind); ok {
		return catalog.LoadFile(r.fs, kind, src)
	}
	if r.db == nil {
		return nil, nil
	}

	entities, err := r.db.Entities(ctx, string(kind))
	if err != nil {
		return nil, err
	}
	entries := make([]catalog.Entry, 0, len(entities))
	for _, e := range entities {
		entries = append(entries, catalog.Entry{ID: e.ExternalID, Name: e.Name})
	}
	log.Info().Str("kind", string(kind)).Int("candidates", len(entries)).Msg("loaded catalog from store")
	return catalog.NewPool(kind, entries), nil
}

func aliasTable(set aliases.Set, kind catalog.Kind) aliases.Table {
	switch kind {
	case catalog.KindTeacher:
		return set.Teachers
	case catalog.KindSubject:
		return set.Subjects
	default:
		return aliases.Table{}
	}
}

// ImportCatalog reads every configured catalog source and upserts its
// entries into the store. It returns the number of entries per kind.
func (r *Runner) ImportCatalog(ctx context.Context) (map[catalog.Kind]int, error) {
	if r.db == nil {
		return nil, ErrNoStore
	}

	now := r.clock.Now().UTC().Truncate(time.Second)
	counts := make(map[catalog.Kind]int)
	var entities []database.Entity
	for _, kind := range catalog.Kinds() {
		src, ok := r.cfg.CatalogSource(kind)
		if !ok {
			continue
		}
		pool, err := catalog.LoadFile(r.fs, kind, src)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s catalog: %w", kind, err)
		}
		for _, c := range pool.Candidates() {
			entities = append(entities, database.Entity{
				Kind:       string(kind),
				ExternalID: c.ID,
				Name:       c.Name,
				NameKey:    c.Key,
				UpdatedAt:  now,
			})
		}
		counts[kind] = pool.Len()
		_, _ = fmt.Fprintf(r.out, "Read %d %s entries from %s\n", pool.Len(), kind, src.Path)
	}

	if len(entities) == 0 {
		return counts, fmt.Errorf("%w: no catalog sources configured", ErrNoCatalog)
	}
	if err := r.db.UpsertEntities(ctx, entities); err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}
	return counts, nil
}
