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

package config

import "path/filepath"

// Paths are resolved against BaseDir when relative. BaseDir itself is
// resolved against the working directory.
type Paths struct {
	BaseDir     string `toml:"base_dir,omitempty"`
	MappingsDir string `toml:"mappings_dir,omitempty"`
	LogsDir     string `toml:"logs_dir,omitempty"`
	Database    string `toml:"database,omitempty"`
}

func (c *Instance) BaseDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Paths.BaseDir == "" {
		return "."
	}
	return c.vals.Paths.BaseDir
}

func (c *Instance) SetBaseDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Paths.BaseDir = dir
}

func (c *Instance) resolve(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir(), path)
}

// MappingsDir is where the alias tables live, "etl_mappings" by default.
func (c *Instance) MappingsDir() string {
	c.mu.RLock()
	p := c.vals.Paths.MappingsDir
	c.mu.RUnlock()
	return c.resolve(p, MappingsDir)
}

// LogsDir is where audit logs are written, "logs" by default.
func (c *Instance) LogsDir() string {
	c.mu.RLock()
	p := c.vals.Paths.LogsDir
	c.mu.RUnlock()
	return c.resolve(p, LogsDir)
}

// DatabasePath returns the registry store location. Without a configured
// path the store lives in dataDir; a relative path is taken from BaseDir.
func (c *Instance) DatabasePath(dataDir string) string {
	c.mu.RLock()
	p := c.vals.Paths.Database
	c.mu.RUnlock()
	if p == "" {
		return filepath.Join(dataDir, RegistryDbFile)
	}
	return c.resolve(p, "")
}
