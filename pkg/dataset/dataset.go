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

// Package dataset reads the row-oriented exports (JSON, JSON Lines, CSV and
// Excel) that feed the reconciliation jobs and catalogs.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatAuto  Format = ""
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

var (
	ErrMissingInput  = errors.New("input file not found")
	ErrUnknownFormat = errors.New("unknown dataset format")
)

const maxLineSize = 4 * 1024 * 1024

// Row is one record of a dataset. Django fixture rows
// ({"model": ..., "pk": ..., "fields": {...}}) are flattened so Fields holds
// the inner fields and PK the primary key.
type Row struct {
	Fields map[string]string
	PK     string
	Line   int
}

// Get returns the trimmed value of a field. "pk" falls back to the row's
// primary key when no field of that name exists.
func (r Row) Get(name string) string {
	if v, ok := r.Fields[name]; ok {
		return strings.TrimSpace(v)
	}
	if name == "pk" {
		return r.PK
	}
	return ""
}

// GetPrefix returns the first non-empty field whose name starts with prefix,
// for exports whose column headers carry long instructions.
func (r Row) GetPrefix(prefix string) string {
	if v := r.Get(prefix); v != "" {
		return v
	}
	best := ""
	for k, v := range r.Fields {
		v = strings.TrimSpace(v)
		if v == "" || !strings.HasPrefix(k, prefix) {
			continue
		}
		// deterministic pick across map iteration
		if best == "" || k < best {
			best = k
		}
	}
	if best == "" {
		return ""
	}
	return strings.TrimSpace(r.Fields[best])
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSON, FormatJSONL, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ReadRows loads every row of the dataset at path. A missing file or content
// that cannot be parsed is a hard error. With FormatAuto the format comes from
// the file extension; .json files holding one object per line are read as
// JSON Lines.
func ReadRows(fs afero.Fs, path string, format Format) ([]Row, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if format == FormatAuto {
		format, err = formatFromPath(path)
		if err != nil {
			return nil, err
		}
	}
	if format == FormatJSON && looksLikeJSONLines(data) {
		format = FormatJSONL
	}

	var rows []Row
	switch format {
	case FormatJSON:
		rows, err = readJSON(data)
	case FormatJSONL:
		rows, err = readJSONLines(data)
	case FormatCSV:
		rows, err = readCSV(data)
	case FormatXLSX:
		rows, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	log.Debug().Str("path", path).Str("format", string(format)).Int("rows", len(rows)).Msg("dataset loaded")
	return rows, nil
}

func looksLikeJSONLines(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func readJSON(data []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			log.Warn().Int("index", i).Msg("skipping non-object JSON row")
			continue
		}
		rows = append(rows, rowFromObject(obj, i+1))
	}
	return rows, nil
}

func readJSONLines(data []byte) ([]Row, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows []Row
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, rowFromObject(obj, line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan lines: %w", err)
	}
	return rows, nil
}

func rowFromObject(obj map[string]any, line int) Row {
	row := Row{Line: line, PK: stringify(obj["pk"])}

	inner, ok := obj["fields"].(map[string]any)
	if !ok {
		inner = obj
	}

	row.Fields = make(map[string]string, len(inner))
	for k, v := range inner {
		row.Fields[k] = stringify(v)
	}
	return row
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func readCSV(data []byte) ([]Row, error) {
	records, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		// header is line 1
		rows = append(rows, Row{Fields: rec, Line: i + 2, PK: rec["pk"]})
	}
	return rows, nil
}

func readXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close workbook")
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("no sheets found in workbook")
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %s: %w", sheet, err)
	}
	return rowsFromGrid(grid), nil
}

func rowsFromGrid(grid [][]string) []Row {
	if len(grid) == 0 {
		return nil
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		fields := make(map[string]string, len(header))
		empty := true
		for col, name := range header {
			if name == "" || col >= len(cells) {
				continue
			}
			fields[name] = cells[col]
			if strings.TrimSpace(cells[col]) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, Row{Fields: fields, Line: i + 2, PK: fields["pk"]})
	}
	return rows
}

// WriteJSON writes v as indented UTF-8 JSON, creating parent directories.
func WriteJSON(fs afero.Fs, path string, v any) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst byte for byte, creating parent directories.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := fs.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	out, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
