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

package database

import (
	"context"
	"time"
)

/*
 * Records persisted by the registry store. The concrete implementation
 * lives in registrydb.
 */

type Entity struct {
	UpdatedAt  time.Time `json:"updatedAt"`
	Kind       string    `json:"kind"`
	ExternalID string    `json:"externalId"`
	Name       string    `json:"name"`
	NameKey    string    `json:"nameKey"`
	DBID       int64     `db:"DBID" json:"id"`
}

type Run struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	ID         string    `json:"id"`
	Job        string    `json:"job"`
	Input      string    `json:"input"`
	Rows       int       `json:"rows"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
	Ambiguous  int       `json:"ambiguous"`
	Skipped    int       `json:"skipped"`
}

// Resolution is the outcome of matching one label of one input row.
type Resolution struct {
	RunID       string  `json:"runId"`
	Kind        string  `json:"kind"`
	RawLabel    string  `json:"rawLabel"`
	NameKey     string  `json:"nameKey"`
	Outcome     string  `json:"outcome"`
	Method      string  `json:"method"`
	Canonical   string  `json:"canonical"`
	CandidateID string  `json:"candidateId"`
	Row         int     `json:"row"`
	Confidence  float64 `json:"confidence"`
}

// Assignment is a domain fact produced by a job: a schedule slot, an
// ensemble enrollment or a tutor of record.
type Assignment struct {
	RunID      string `json:"runId"`
	Job        string `json:"job"`
	GradeLevel string `json:"gradeLevel"`
	Subject    string `json:"subject"`
	TeacherID  string `json:"teacherId"`
	StudentID  string `json:"studentId"`
	Day        string `json:"day"`
	Slot       string `json:"slot"`
	Room       string `json:"room"`
	Row        int    `json:"row"`
}

type RegistryDBI interface {
	Close() error
	UpsertEntities(ctx context.Context, entities []Entity) error
	Entities(ctx context.Context, kind string) ([]Entity, error)
	CommitRun(ctx context.Context, run Run, resolutions []Resolution, assignments []Assignment) error
	Runs(ctx context.Context) ([]Run, error)
}
