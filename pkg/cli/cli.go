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


package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var ErrNoAction = errors.New("nothing to do")

type Flags struct {
	Job           *string
	Input         *string
	DryRun        *bool
	Match         *string
	Kind          *string
	Grade         *string
	Section       *string
	NormalizeOut  *string
	ImportCatalog *bool
	Version       *bool
	Debug         *bool
	set           *flag.FlagSet
}

// SetupFlags defines the reconcile flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		Job: fs.String(
			"job",
			"",
			"batch job to run (ensembles, schedules, tutors)",
		),
		Input: fs.String(
			"input",
			"",
			"export file the job reads rows from",
		),
		DryRun: fs.Bool(
			"dry-run",
			false,
			"resolve and write audit logs without touching the registry store",
		),
		Match: fs.String(
			"match",
			"",
			"resolve a single label against a catalog and print the result",
		),
		Kind: fs.String(
			"kind",
			"teacher",
			"catalog used by -match (teacher, student, subject)",
		),
		Grade: fs.String(
			"grade",
			"",
			"parse a course description into a grade level and print it",
		),
		Section: fs.String(
			"section",
			"",
			"section used with -grade",
		),
		NormalizeOut: fs.String(
			"normalize-out",
			"",
			"write canonicalized copies of the datasets in base_dir to this directory",
		),
		ImportCatalog: fs.Bool(
			"import-catalog",
			false,
			"load the configured catalogs into the registry store",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Setup initializes logging and loads the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(fs afero.Fs, defaultConfig config.Values, writers []io.Writer, debug bool) (*config.Instance, error) {
	err := helpers.InitLogging(helpers.StateDir(), writers)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(fs, helpers.ConfigDir(), defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if debug {
		cfg.SetDebugLogging(true)
	}
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg, nil
}
