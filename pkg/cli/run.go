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


package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/etl"
	"github.com/music-registry/reconcile/pkg/gradelevel"
	"github.com/music-registry/reconcile/pkg/matcher"
	"github.com/music-registry/reconcile/pkg/resolver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// App holds what the flag actions run against. OpenDB is called only by
// actions that need the registry store.
type App struct {
	Fs     afero.Fs
	Cfg    *config.Instance
	Out    io.Writer
	Clock  clockwork.Clock
	OpenDB func(ctx context.Context) (database.RegistryDBI, error)
}

// Execute runs the action selected by the parsed flags. Only one action
// runs per invocation.
func (f *Flags) Execute(ctx context.Context, app *App) error {
	switch {
	case *f.Version:
		_, _ = fmt.Fprintf(app.Out, "%s v%s\n", config.AppName, config.AppVersion)
		return nil
	case f.isFlagPassed("grade"):
		return f.grade(app)
	case f.isFlagPassed("match"):
		return f.match(ctx, app)
	case f.isFlagPassed("normalize-out"):
		return f.normalize(app)
	case *f.ImportCatalog:
		return f.importCatalog(ctx, app)
	case *f.Job != "":
		return f.runJob(ctx, app)
	default:
		return fmt.Errorf("%w: pass -job, -match, -grade, -normalize-out or -import-catalog", ErrNoAction)
	}
}

func (f *Flags) grade(app *App) error {
	if strings.TrimSpace(*f.Grade) == "" {
		return errors.New("grade flag requires a value")
	}
	key := gradelevel.Parse(*f.Grade, *f.Section)
	if key.Level == "" {
		_, _ = fmt.Fprintf(app.Out, "level:   (not recognized)\nsection: %s\n", key.Section)
		return nil
	}
	_, _ = fmt.Fprintf(app.Out, "level:   %s\nsection: %s\n", key.Level, key.Section)
	if key.Valid() {
		_, _ = fmt.Fprintf(app.Out, "key:     %s\n", key.ParaleloKey())
	}
	return nil
}

func (f *Flags) match(ctx context.Context, app *App) error {
	if strings.TrimSpace(*f.Match) == "" {
		return errors.New("match flag requires a value")
	}
	kind, err := catalog.ParseKind(*f.Kind)
	if err != nil {
		return err
	}

	set, err := aliases.LoadDir(app.Fs, app.Cfg.MappingsDir())
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}
	pool, err := f.loadPool(ctx, app, kind)
	if err != nil {
		return err
	}

	var table aliases.Table
	switch kind {
	case catalog.KindTeacher:
		table = set.Teachers
	case catalog.KindSubject:
		table = set.Subjects
	default:
	}

	params := app.Cfg.MatchParams(kind)
	res := resolver.New(pool, table, params).Resolve(resolver.Label{Text: *f.Match, Kind: kind, Source: "cli"})
	printResult(app.Out, *f.Match, res)

	if !res.Matched() && !res.Ambiguous() {
		hints := matcher.Suggest(*f.Match, pool, 5, 0.7)
		for _, h := range hints {
			_, _ = fmt.Fprintf(app.Out, "closest:    %s (%.2f)\n", h.Candidate.Name, h.Similarity)
		}
	}
	return nil
}

func (f *Flags) loadPool(ctx context.Context, app *App, kind catalog.Kind) (*catalog.Pool, error) {
	if src, ok := app.Cfg.CatalogSource(kind); ok {
		pool, err := catalog.LoadFile(app.Fs, kind, src)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s catalog: %w", kind, err)
		}
		return pool, nil
	}

	db, err := app.OpenDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry store: %w", err)
	}
	defer closeDB(db)

	entities, err := db.Entities(ctx, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s catalog: %w", kind, err)
	}
	entries := make([]catalog.Entry, 0, len(entities))
	for _, e := range entities {
		entries = append(entries, catalog.Entry{ID: e.ExternalID, Name: e.Name})
	}
	return catalog.NewPool(kind, entries), nil
}

func printResult(w io.Writer, label string, res matcher.Result) {
	var b strings.Builder
	fmt.Fprintf(&b, "label:      %s\n", label)
	switch res.Outcome {
	case matcher.OutcomeMatched:
		fmt.Fprintf(&b, "outcome:    %s (%s)\n", res.Outcome, res.Method)
		fmt.Fprintf(&b, "canonical:  %s\n", res.Canonical)
		if res.Candidate.ID != "" {
			fmt.Fprintf(&b, "id:         %s\n", res.Candidate.ID)
		}
		fmt.Fprintf(&b, "confidence: %.2f\n", res.Confidence)
	case matcher.OutcomeAmbiguous:
		fmt.Fprintf(&b, "outcome:    %s (%s)\n", res.Outcome, res.Method)
		for _, c := range res.Candidates {
			fmt.Fprintf(&b, "candidate:  %s [%s]\n", c.Name, c.ID)
		}
	default:
		fmt.Fprintf(&b, "outcome:    %s\n", res.Outcome)
	}
	_, _ = io.WriteString(w, b.String())
}

func (f *Flags) normalize(app *App) error {
	if strings.TrimSpace(*f.NormalizeOut) == "" {
		return errors.New("normalize-out flag requires a value")
	}
	set, err := aliases.LoadDir(app.Fs, app.Cfg.MappingsDir())
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	report, err := etl.NormalizeDatasets(app.Fs, app.Cfg.BaseDir(), *f.NormalizeOut, set)
	if err != nil {
		return fmt.Errorf("failed to normalize datasets: %w", err)
	}
	for _, p := range report.Normalized {
		_, _ = fmt.Fprintf(app.Out, "normalized: %s\n", p)
	}
	for _, p := range report.Copied {
		_, _ = fmt.Fprintf(app.Out, "copied:     %s\n", p)
	}
	for _, p := range report.EmptyLogs {
		_, _ = fmt.Fprintf(app.Out, "audit log:  %s\n", p)
	}
	_, _ = fmt.Fprintf(app.Out, "OK: normalized datasets written to %s\n", *f.NormalizeOut)
	return nil
}

func (f *Flags) importCatalog(ctx context.Context, app *App) error {
	db, err := app.OpenDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to open registry store: %w", err)
	}
	defer closeDB(db)

	counts, err := etl.NewRunner(app.Fs, app.Cfg, db, app.Clock, app.Out).ImportCatalog(ctx)
	if err != nil {
		return err
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		_, _ = fmt.Fprintf(app.Out, "imported %d %s entries\n", counts[catalog.Kind(k)], k)
	}
	return nil
}

func (f *Flags) runJob(ctx context.Context, app *App) error {
	job, err := etl.Lookup(*f.Job)
	if err != nil {
		return fmt.Errorf("%w (valid: %s)", err, strings.Join(etl.JobNames(), ", "))
	}

	var db database.RegistryDBI
	if !*f.DryRun {
		db, err = app.OpenDB(ctx)
		if err != nil {
			return fmt.Errorf("failed to open registry store: %w", err)
		}
		defer closeDB(db)
	}

	runner := etl.NewRunner(app.Fs, app.Cfg, db, app.Clock, app.Out)
	runner.SetDryRun(*f.DryRun)
	_, err = runner.Run(ctx, job, *f.Input)
	if err != nil {
		return fmt.Errorf("%s job failed: %w", job.Name(), err)
	}
	return nil
}

func closeDB(db database.RegistryDBI) {
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close registry store")
	}
}
