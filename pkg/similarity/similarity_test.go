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

package similarity

import (
	"testing"

	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{a: "", b: "", expected: 0},
		{a: "", b: "abc", expected: 3},
		{a: "abc", b: "", expected: 3},
		{a: "kitten", b: "sitting", expected: 3},
		{a: "garcia", b: "garces", expected: 2},
		{a: "flaw", b: "lawn", expected: 2},
		{a: "perez", b: "perez", expected: 0},
		{a: "núñez", b: "nunez", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Distance(tt.a, tt.b))
		})
	}
}

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Ratio("", ""), 1e-9)
	assert.InDelta(t, 0.0, Ratio("", "x"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("x", ""), 1e-9)
	assert.InDelta(t, 1.0, Ratio("ana", "ana"), 1e-9)
	assert.InDelta(t, 10.0/13.0, Ratio("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 10.0/12.0, Ratio("garcia", "garces"), 1e-9)
	assert.InDelta(t, 0.5, Ratio("ab", "cd"), 1e-9)
}

func wordGen() *rapid.Generator[string] {
	return rapid.StringOf(rapid.SampledFrom([]rune("abcdeinoprsz ñé")))
}

// TestPropertyRatioSymmetric verifies Ratio(a, b) == Ratio(b, a).
func TestPropertyRatioSymmetric(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := wordGen().Draw(t, "a")
		b := wordGen().Draw(t, "b")
		if Ratio(a, b) != Ratio(b, a) {
			t.Fatalf("Ratio(%q, %q)=%v but Ratio(%q, %q)=%v", a, b, Ratio(a, b), b, a, Ratio(b, a))
		}
	})
}

// TestPropertyRatioIdentity verifies a string is fully similar to itself.
func TestPropertyRatioIdentity(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := wordGen().Draw(t, "s")
		if Ratio(s, s) != 1.0 {
			t.Fatalf("Ratio(%q, %q) = %v, want 1.0", s, s, Ratio(s, s))
		}
	})
}

// TestPropertyRatioBounded verifies Ratio stays within [0, 1].
func TestPropertyRatioBounded(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		r := Ratio(wordGen().Draw(t, "a"), wordGen().Draw(t, "b"))
		if r < 0 || r > 1 {
			t.Fatalf("Ratio out of range: %v", r)
		}
	})
}

// TestPropertyDistanceMatchesEdlib cross-checks the rolling-row implementation
// against go-edlib's full-matrix Levenshtein.
func TestPropertyDistanceMatchesEdlib(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := wordGen().Draw(t, "a")
		b := wordGen().Draw(t, "b")
		if got, want := Distance(a, b), edlib.LevenshteinDistance(a, b); got != want {
			t.Fatalf("Distance(%q, %q) = %d, edlib says %d", a, b, got, want)
		}
	})
}
