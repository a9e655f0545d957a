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

	"github.com/music-registry/reconcile/pkg/config"
	"github.com/spf13/afero"
)

// NewTestConfig writes content as the config file in configDir and loads
// it. An empty content loads the defaults.
func NewTestConfig(fs afero.Fs, configDir, content string) (*config.Instance, error) {
	if content != "" {
		if err := fs.MkdirAll(configDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config dir: %w", err)
		}
		path := filepath.Join(configDir, config.CfgFile)
		if err := afero.WriteFile(fs, path, []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write config file: %w", err)
		}
	}

	cfg, err := config.NewConfig(fs, configDir, config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}
