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


package helpers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/music-registry/reconcile/pkg/aliases"
	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/testing/fixtures"
	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// CreateDirectoryStructure creates files and directories from a nested map.
// A string or []byte value is a file, a map is a directory and nil is an
// empty directory.
func (h *FSHelper) CreateDirectoryStructure(structure map[string]any) error {
	return h.createStructureRecursive("", structure)
}

func (h *FSHelper) createStructureRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.WriteFile(fullPath, []byte(v)); err != nil {
				return err
			}
		case []byte:
			if err := h.WriteFile(fullPath, v); err != nil {
				return err
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createStructureRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		}
	}
	return nil
}

// FileExists checks if a file exists
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}

// ReadFile reads a file and returns its content
func (h *FSHelper) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(h.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ReadLines returns the non-empty lines of a text file, such as an audit log.
func (h *FSHelper) ReadLines(path string) ([]string, error) {
	data, err := h.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// WriteFile writes content to a file, creating parent directories
func (h *FSHelper) WriteFile(path string, content []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ListFiles lists all files in a directory
func (h *FSHelper) ListFiles(path string) ([]string, error) {
	files, err := afero.ReadDir(h.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	fileNames := make([]string, len(files))
	for i, file := range files {
		fileNames[i] = file.Name()
	}

	return fileNames, nil
}

// Workspace names used by GetRegistryTestStructure.
const (
	TeachersCatalog  = "catalogs/teachers.json"
	StudentsCatalog  = "catalogs/students.jsonl"
	SchedulesInput   = "horarios_academicos/REPORTE_DOCENTES_HORARIOS.json"
	EnsemblesInput   = "asignaciones_grupales/ASIGNACIONES_agrupaciones.json"
	TutorsInput      = "personal_docente/REPORTE_TUTORES_CURSOS.json"
	InstrumentsInput = "Instrumento_Agrupaciones/ASIGNACIONES_instrumentos.json"
)

// GetRegistryTestStructure returns a working directory holding the sample
// catalogs, alias tables and exports from the fixtures package.
func GetRegistryTestStructure() map[string]any {
	return map[string]any{
		"catalogs": map[string]any{
			"teachers.json":  fixtures.TeachersJSON,
			"students.jsonl": fixtures.StudentsJSONL,
		},
		config.MappingsDir: map[string]any{
			aliases.SubjectsFile: fixtures.SubjectAliasesJSON,
			aliases.TeachersFile: fixtures.TeacherAliasesJSON,
		},
		"horarios_academicos": map[string]any{
			"REPORTE_DOCENTES_HORARIOS.json": fixtures.SchedulesJSON,
		},
		"asignaciones_grupales": map[string]any{
			"ASIGNACIONES_agrupaciones.json": fixtures.EnsemblesJSON,
		},
		"personal_docente": map[string]any{
			"REPORTE_TUTORES_CURSOS.json": fixtures.TutorsJSON,
		},
		"Instrumento_Agrupaciones": map[string]any{
			"ASIGNACIONES_instrumentos.json": fixtures.InstrumentsJSON,
		},
	}
}

// RegistryTestConfig is a config file pointing the catalogs at the files
// of GetRegistryTestStructure rooted at baseDir.
func RegistryTestConfig(baseDir string) string {
	return fmt.Sprintf(`config_schema = 1

[paths]
base_dir = %q

[catalog.teachers]
path = %q
name_field = "full_name"

[catalog.students]
path = %q
name_field = "full_name"
`, baseDir, TeachersCatalog, StudentsCatalog)
}

// SetupRegistryWorkspace creates the sample working directory under
// baseDir and a config file for it in configDir.
func SetupRegistryWorkspace(baseDir, configDir string) (*FSHelper, *config.Instance, error) {
	h := NewMemoryFS()
	if err := h.CreateDirectoryStructure(map[string]any{baseDir: GetRegistryTestStructure()}); err != nil {
		return nil, nil, err
	}
	cfg, err := NewTestConfig(h.Fs, configDir, RegistryTestConfig(baseDir))
	if err != nil {
		return nil, nil, err
	}
	return h, cfg, nil
}
