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


package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/music-registry/reconcile/pkg/cli"
	"github.com/music-registry/reconcile/pkg/config"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/database/registrydb"
	"github.com/music-registry/reconcile/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	var logWriters []io.Writer
	if *flags.Debug {
		logWriters = []io.Writer{helpers.ConsoleWriter(os.Stderr)}
	}

	fs := afero.NewOsFs()
	cfg, err := cli.Setup(fs, config.BaseDefaults, logWriters, *flags.Debug)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Fs:    fs,
		Cfg:   cfg,
		Out:   os.Stdout,
		Clock: clockwork.NewRealClock(),
		OpenDB: func(ctx context.Context) (database.RegistryDBI, error) {
			return registrydb.Open(ctx, cfg.DatabasePath(helpers.DataDir()))
		},
	}

	log.Debug().Str("version", config.AppVersion).Msg("reconcile started")
	err = flags.Execute(ctx, app)
	if err != nil {
		log.Error().Err(err).Msg("reconcile failed")
		return err
	}
	return nil
}
