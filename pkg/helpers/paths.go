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
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/music-registry/reconcile/pkg/config"
)

// ConfigDir is $XDG_CONFIG_HOME/reconcile.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir is $XDG_DATA_HOME/reconcile, home of the registry store.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// StateDir is $XDG_STATE_HOME/reconcile, where the application log rotates.
func StateDir() string {
	return filepath.Join(xdg.StateHome, config.AppName)
}
