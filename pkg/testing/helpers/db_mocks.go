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


// Package helpers provides testing utilities for the registry store and
// file based inputs.
//
// MockRegistryDBI stands in for the store where a test only cares about
// what is sent to it:
//
//	db := helpers.NewMockRegistryDBI()
//	db.On("CommitRun", mock.Anything, helpers.RunMatcher("schedules"),
//		mock.Anything, mock.Anything).Return(nil)
//
//	// run the code under test
//
//	db.AssertExpectations(t)
//
// NewInMemoryRegistryDB returns a real, migrated store for integration
// tests.
package helpers

import (
	"context"
	"fmt"

	"github.com/music-registry/reconcile/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockRegistryDBI is a mock implementation of the RegistryDBI interface using testify/mock
type MockRegistryDBI struct {
	mock.Mock
}

var _ database.RegistryDBI = (*MockRegistryDBI)(nil)

func NewMockRegistryDBI() *MockRegistryDBI {
	return &MockRegistryDBI{}
}

func (m *MockRegistryDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock RegistryDBI close failed: %w", err)
	}
	return nil
}

func (m *MockRegistryDBI) UpsertEntities(ctx context.Context, entities []database.Entity) error {
	args := m.Called(ctx, entities)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock RegistryDBI upsert entities failed: %w", err)
	}
	return nil
}

func (m *MockRegistryDBI) Entities(ctx context.Context, kind string) ([]database.Entity, error) {
	args := m.Called(ctx, kind)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock RegistryDBI entities failed: %w", err)
	}
	if entities, ok := args.Get(0).([]database.Entity); ok {
		return entities, nil
	}
	return nil, nil
}

func (m *MockRegistryDBI) CommitRun(
	ctx context.Context,
	run database.Run,
	resolutions []database.Resolution,
	assignments []database.Assignment,
) error {
	args := m.Called(ctx, run, resolutions, assignments)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock RegistryDBI commit run failed: %w", err)
	}
	return nil
}

func (m *MockRegistryDBI) Runs(ctx context.Context) ([]database.Run, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock RegistryDBI runs failed: %w", err)
	}
	if runs, ok := args.Get(0).([]database.Run); ok {
		return runs, nil
	}
	return nil, nil
}

// RunMatcher returns a testify matcher for a database.Run of job with its
// id and timestamps set.
func RunMatcher(job string) any {
	return mock.MatchedBy(func(r database.Run) bool {
		return r.Job == job && r.ID != "" && !r.StartedAt.IsZero() && !r.FinishedAt.Before(r.StartedAt)
	})
}

// NonEmptyResolutions matches a resolution batch with at least one entry.
func NonEmptyResolutions() any {
	return mock.MatchedBy(func(res []database.Resolution) bool {
		return len(res) > 0
	})
}
