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

// Package similarity scores how close two normalized strings are using
// Levenshtein edit distance.
package similarity

import "unicode/utf8"

// Distance returns the Levenshtein edit distance between a and b, counted in
// runes. Only one row of the DP table is kept, sized to the shorter string; the
// longer string drives the outer loop.
func Distance(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	row := make([]int, len(short)+1)
	for i := range row {
		row[i] = i
	}

	for j, lr := range long {
		diag := row[0]
		row[0] = j + 1
		for i, sr := range short {
			above := row[i+1]
			cost := 1
			if sr == lr {
				cost = 0
			}
			row[i+1] = min(above+1, row[i]+1, diag+cost)
			diag = above
		}
	}

	return row[len(short)]
}

// Ratio converts the edit distance into a similarity in [0, 1]:
//
//	(len(a) + len(b) - distance) / (len(a) + len(b))
//
// Two empty strings are identical (1.0); exactly one empty string scores 0.0.
func Ratio(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0.0
	}
	total := float64(la + lb)
	return (total - float64(Distance(a, b))) / total
}
