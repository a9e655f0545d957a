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

// Package audit collects the rows a run could not resolve and writes them to
// per-category review logs.
package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/normalize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Category string

const (
	UnmatchedTeachers  Category = "unmatched_teachers"
	UnmatchedStudents  Category = "unmatched_students"
	UnmatchedSubjects  Category = "unmatched_subjects"
	AmbiguousMatches   Category = "ambiguous_matches"
	GradeParseFailures Category = "grade_parse_failures"
	Inconsistencies    Category = "inconsistencies"
)

// Categories lists every category in log file order.
func Categories() []Category {
	return []Category{
		UnmatchedTeachers,
		UnmatchedStudents,
		UnmatchedSubjects,
		AmbiguousMatches,
		GradeParseFailures,
		Inconsistencies,
	}
}

// Unmatched returns the unmatched category for an entity kind.
func Unmatched(kind catalog.Kind) Category {
	switch kind {
	case catalog.KindStudent:
		return UnmatchedStudents
	case catalog.KindSubject:
		return UnmatchedSubjects
	default:
		return UnmatchedTeachers
	}
}

// FileName is the log file written for c.
func (c Category) FileName() string {
	return string(c) + ".log"
}

// Recorder holds de-duplicated audit lines for one run. It is not safe for
// concurrent use.
type Recorder struct {
	lines map[Category]map[string]struct{}
}

func NewRecorder() *Recorder {
	return &Recorder{lines: make(map[Category]map[string]struct{})}
}

// Add records line under c. Blank lines and repeats are ignored.
func (r *Recorder) Add(c Category, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	set, ok := r.lines[c]
	if !ok {
		set = make(map[string]struct{})
		r.lines[c] = set
	}
	set[line] = struct{}{}
}

func (r *Recorder) Addf(c Category, format string, args ...any) {
	r.Add(c, fmt.Sprintf(format, args...))
}

// Lines returns the lines of c in review order.
func (r *Recorder) Lines(c Category) []string {
	set := r.lines[c]
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	SortLines(out)
	return out
}

// Counts returns the number of distinct lines per category, including zeros.
func (r *Recorder) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories()))
	for _, c := range Categories() {
		counts[c] = len(r.lines[c])
	}
	return counts
}

func (r *Recorder) Total() int {
	n := 0
	for _, set := range r.lines {
		n += len(set)
	}
	return n
}

// Flush writes one log per non-empty category into dir, replacing any log
// from a previous run, and removes logs of categories that are now empty.
// It returns the paths written.
func (r *Recorder) Flush(fs afero.Fs, dir string) ([]string, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create audit dir: %w", err)
	}

	var written []string
	for _, c := range Categories() {
		path := filepath.Join(dir, c.FileName())
		lines := r.Lines(c)
		if len(lines) == 0 {
			err := fs.Remove(path)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return written, fmt.Errorf("failed to remove stale audit log %s: %w", path, err)
			}
			continue
		}

		if err := WriteLines(fs, path, lines); err != nil {
			return written, err
		}
		log.Info().Str("path", path).Int("lines", len(lines)).Msg("wrote audit log")
		written = append(written, path)
	}
	return written, nil
}

// SortLines orders lines case- and accent-insensitively, falling back to the
// raw text so the order is total.
func SortLines(lines []string) {
	keys := make(map[string]string, len(lines))
	for _, l := range lines {
		keys[l] = normalize.Key(l)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		ki, kj := keys[lines[i]], keys[lines[j]]
		if ki != kj {
			return ki < kj
		}
		return lines[i] < lines[j]
	})
}

// WriteLines writes lines to path, one per line, overwriting the file.
func WriteLines(fs afero.Fs, path string, lines []string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
