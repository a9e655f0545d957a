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

package registrydb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/music-registry/reconcile/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run registry database migrations: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if closeErr := stmt.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql statement")
	}
}

func sqlUpsertEntities(ctx context.Context, db *sql.DB, entities []database.Entity) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin entity transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to roll back entity transaction")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		insert into Entities(
			Kind, ExternalID, Name, NameKey, UpdatedAt
		) values (?, ?, ?, ?, ?)
		on conflict(Kind, ExternalID) do update set
			Name = excluded.Name,
			NameKey = excluded.NameKey,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entity upsert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, e := range entities {
		_, err = stmt.ExecContext(ctx,
			e.Kind,
			e.ExternalID,
			e.Name,
			e.NameKey,
			e.UpdatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to execute entity upsert for %s %s: %w", e.Kind, e.ExternalID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entity transaction: %w", err)
	}
	return nil
}

func sqlEntities(ctx context.Context, db *sql.DB, kind string) ([]database.Entity, error) {
	list := make([]database.Entity, 0)

	q, err := db.PrepareContext(ctx, `
		select
		DBID, Kind, ExternalID, Name, NameKey, UpdatedAt
		from Entities
		where Kind = ?
		order by DBID;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare entities statement: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx, kind)
	if err != nil {
		return list, fmt.Errorf("failed to execute entities query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		row := database.Entity{}
		var updated int64
		scanErr := rows.Scan(
			&row.DBID,
			&row.Kind,
			&row.ExternalID,
			&row.Name,
			&row.NameKey,
			&updated,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan entity row: %w", scanErr)
		}
		row.UpdatedAt = time.Unix(updated, 0)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed to iterate over entity rows: %w", err)
	}
	return list, nil
}

func sqlCommitRun(
	ctx context.Context,
	db *sql.DB,
	run database.Run,
	resolutions []database.Resolution,
	assignments []database.Assignment,
) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to roll back run transaction")
		}
	}()

	_, err = tx.ExecContext(ctx, `
		insert into Runs(
			ID, Job, Input, StartedAt, FinishedAt,
			RowCount, Matched, Unmatched, Ambiguous, Skipped
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		run.ID,
		run.Job,
		run.Input,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.Rows,
		run.Matched,
		run.Unmatched,
		run.Ambiguous,
		run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to execute run insert: %w", err)
	}

	if err = insertResolutions(ctx, tx, run.ID, resolutions); err != nil {
		return err
	}
	if err = insertAssignments(ctx, tx, run.ID, assignments); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run transaction: %w", err)
	}
	log.Info().
		Str("run", run.ID).
		Int("resolutions", len(resolutions)).
		Int("assignments", len(assignments)).
		Msg("run committed")
	return nil
}

func insertResolutions(ctx context.Context, tx *sql.Tx, runID string, resolutions []database.Resolution) error {
	if len(resolutions) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		insert into Resolutions(
			RunID, RowNum, Kind, RawLabel, NameKey, Outcome,
			Method, Canonical, CandidateID, Confidence
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare resolution insert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, r := range resolutions {
		_, err = stmt.ExecContext(ctx,
			runID,
			r.Row,
			r.Kind,
			r.RawLabel,
			r.NameKey,
			r.Outcome,
			r.Method,
			r.Canonical,
			r.CandidateID,
			r.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to execute resolution insert for row %d: %w", r.Row, err)
		}
	}
	return nil
}

func insertAssignments(ctx context.Context, tx *sql.Tx, runID string, assignments []database.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		insert into Assignments(
			RunID, RowNum, Job, GradeLevel, Subject,
			TeacherID, StudentID, Day, Slot, Room
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, a := range assignments {
		_, err = stmt.ExecContext(ctx,
			runID,
			a.Row,
			a.Job,
			a.GradeLevel,
			a.Subject,
			a.TeacherID,
			a.StudentID,
			a.Day,
			a.Slot,
			a.Room,
		)
		if err != nil {
			return fmt.Errorf("failed to execute assignment insert for row %d: %w", a.Row, err)
		}
	}
	return nil
}

func sqlRuns(ctx context.Context, db *sql.DB) ([]database.Run, error) {
	list := make([]database.Run, 0)

	rows, err := db.QueryContext(ctx, `
		select
		ID, Job, Input, StartedAt, FinishedAt,
		RowCount, Matched, Unmatched, Ambiguous, Skipped
		from Runs
		order by StartedAt desc, ID;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to execute runs query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	for rows.Next() {
		row := database.Run{}
		var started, finished int64
		scanErr := rows.Scan(
			&row.ID,
			&row.Job,
			&row.Input,
			&started,
			&finished,
			&row.Rows,
			&row.Matched,
			&row.Unmatched,
			&row.Ambiguous,
			&row.Skipped,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan run row: %w", scanErr)
		}
		row.StartedAt = time.Unix(started, 0)
		row.FinishedAt = time.Unix(finished, 0)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed to iterate over run rows: %w", err)
	}
	return list, nil
}
