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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/audit"
	"github.com/music-registry/reconcile/pkg/dataset"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	NormalizeLogsDir      = "etl_logs"
	EmptySubjectsFile     = "normalize_empty_subjects.txt"
	EmptyTeachersFile     = "normalize_empty_teachers.txt"
	fieldKindSubject      = "subject"
	fieldKindTeacher      = "teacher"
	nestedFieldsContainer = "fields"
)

// datasetRule says which fields of a dataset get canonical names. Nested
// rules apply to the Django fixture "fields" object of each row.
type datasetRule struct {
	glob   string
	fields map[string]string
	nested bool
}

var datasetRules = []datasetRule{
	{
		glob:   filepath.Join("asignaciones_grupales", "ASIGNACIONES_agrupaciones.json"),
		fields: map[string]string{"agrupacion": fieldKindSubject},
	},
	{
		glob: filepath.Join("asignaciones_grupales", "asignaciones_docentes.json"),
		fields: map[string]string{
			"agrupacion":       fieldKindSubject,
			"docente_asignado": fieldKindTeacher,
		},
	},
	{
		glob: filepath.Join("Instrumento_Agrupaciones", "ASIGNACIONES_*.json"),
		fields: map[string]string{
			"docente_nombre": fieldKindTeacher,
			"clase":          fieldKindSubject,
		},
		nested: true,
	},
	{
		glob: filepath.Join("horarios_academicos", "*.json"),
		fields: map[string]string{
			"clase":   fieldKindSubject,
			"docente": fieldKindTeacher,
		},
		nested: true,
	},
}

// Datasets copied untouched; the jobs canonicalize their names themselves.
var copyGlobs = []string{
	filepath.Join("Instrumento_Agrupaciones", "ESTUDIANTES_CON_REPRESENTANTES.json"),
	filepath.Join("estudiantes_matriculados", "*.json"),
	filepath.Join("personal_docente", "*.json"),
}

// NormalizeReport lists what NormalizeDatasets wrote.
type NormalizeReport struct {
	Normalized []string
	Copied     []string
	EmptyLogs  []string
}

type emptyValues struct {
	subjects []string
	teachers []string
}

// NormalizeDatasets writes a copy of the known datasets under baseDir to
// outDir with subject and teacher names replaced by their canonical form.
// The originals are never modified. Raw values whose canonical form is
// empty are listed, sorted by normalized key, in the etl_logs directory
// of baseDir.
func NormalizeDatasets(fs afero.Fs, baseDir, outDir string, set aliases.Set) (NormalizeReport, error) {
	var report NormalizeReport
	var empty emptyValues

	for _, rule := range datasetRules {
		paths, err := afero.Glob(fs, filepath.Join(baseDir, rule.glob))
		if err != nil {
			return report, fmt.Errorf("failed to list %s: %w", rule.glob, err)
		}
		sort.Strings(paths)
		for _, src := range paths {
			dst, err := outPath(baseDir, outDir, src)
			if err != nil {
				return report, err
			}
			if err := normalizeFile(fs, src, dst, rule, set, &empty); err != nil {
				return report, err
			}
			report.Normalized = append(report.Normalized, dst)
		}
	}

	for _, glob := range copyGlobs {
		paths, err := afero.Glob(fs, filepath.Join(baseDir, glob))
		if err != nil {
			return report, fmt.Errorf("failed to list %s: %w", glob, err)
		}
		sort.Strings(paths)
		for _, src := range paths {
			dst, err := outPath(baseDir, outDir, src)
			if err != nil {
				return report, err
			}
			if err := dataset.CopyFile(fs, src, dst); err != nil {
				return report, err
			}
			report.Copied = append(report.Copied, dst)
		}
	}

	logsDir := filepath.Join(baseDir, NormalizeLogsDir)
	for name, values := range map[string][]string{
		EmptySubjectsFile: empty.subjects,
		EmptyTeachersFile: empty.teachers,
	} {
		path := filepath.Join(logsDir, name)
		if err := audit.WriteLines(fs, path, distinctSorted(values)); err != nil {
			return report, err
		}
		report.EmptyLogs = append(report.EmptyLogs, path)
	}
	sort.Strings(report.EmptyLogs)

	log.Info().Str("out", outDir).Int("normalized", len(report.Normalized)).
		Int("copied", len(report.Copied)).Msg("normalized datasets")
	return report, nil
}

func outPath(baseDir, outDir, src string) (string, error) {
	rel, err := filepath.Rel(baseDir, src)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", src, err)
	}
	return filepath.Join(outDir, rel), nil
}

func normalizeFile(
	fs afero.Fs,
	src, dst string,
	rule datasetRule,
	set aliases.Set,
	empty *emptyValues,
) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", dataset.ErrMissingInput, src)
		}
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	var rows []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return fmt.Errorf("failed to parse %s: %w", src, err)
	}

	for i, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		target := obj
		if rule.nested {
			fields, ok := obj[nestedFieldsContainer].(map[string]any)
			if !ok {
				fields = make(map[string]any)
				obj[nestedFieldsContainer] = fields
			}
			target = fields
		}
		for field, kind := range rule.fields {
			where := fmt.Sprintf("%s row %d %s", filepath.Base(src), i+1, field)
			target[field] = canonicalValue(target[field], kind, where, set, empty)
		}
	}

	return dataset.WriteJSON(fs, dst, rows)
}

// canonicalValue returns the canonical name for v. Values that come out
// empty are recorded by their raw text, or by where when the raw text is
// blank too.
func canonicalValue(v any, kind, where string, set aliases.Set, empty *emptyValues) string {
	raw := ""
	if v != nil {
		raw = fmt.Sprint(v)
	}
	label := raw
	if strings.TrimSpace(label) == "" {
		label = where
	}

	if kind == fieldKindTeacher {
		out := set.CanonicalTeacher(raw)
		if out == "" {
			empty.teachers = append(empty.teachers, label)
		}
		return out
	}
	out := set.CanonicalSubject(raw)
	if out == "" {
		empty.subjects = append(empty.subjects, label)
	}
	return out
}

// distinctSorted drops blank and repeated values and orders the rest the
// way audit logs are ordered.
func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	audit.SortLines(out)
	return out
}
