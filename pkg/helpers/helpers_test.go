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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/music-registry/reconcile/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogging(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "state", "nested")
	var extra bytes.Buffer

	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	require.NoError(t, InitLogging(logDir, []io.Writer{&extra}))
	log.Info().Str("job", "schedules").Msg("logging initialised")

	assert.Contains(t, extra.String(), `"job":"schedules"`)
	assert.Contains(t, extra.String(), `"caller"`)

	data, err := os.ReadFile(filepath.Join(logDir, config.LogFile))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "logging initialised"))
}

func TestConsoleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := ConsoleWriter(&buf)
	_, err := w.Write([]byte(`{"level":"warn","message":"row skipped"}` + "\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "row skipped")
	assert.Contains(t, buf.String(), "WRN")
}

func TestDirs(t *testing.T) {
	t.Parallel()

	for _, dir := range []string{ConfigDir(), DataDir(), StateDir()} {
		assert.Equal(t, config.AppName, filepath.Base(dir))
		assert.True(t, filepath.IsAbs(dir), dir)
	}
}
