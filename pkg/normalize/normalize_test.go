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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: " \t\n ", expected: ""},
		{name: "trims and collapses", input: "  Juan   Carlos\tPerez  ", expected: "juan carlos perez"},
		{name: "strips accents", input: "José Pérez Núñez", expected: "jose perez nunez"},
		{name: "upper case accents", input: "ÁNGEL TIBÁN", expected: "angel tiban"},
		{name: "typo corrected", input: "Rafel Soto", expected: "rafael soto"},
		{name: "typo with accent", input: "Rafél Soto", expected: "rafael soto"},
		{name: "typo only as whole word", input: "Rafelina", expected: "rafelina"},
		{name: "ordinal indicator decomposes", input: "11º", expected: "11o"},
		{name: "keeps punctuation", input: "Guitarra (Clásica)", expected: "guitarra (clasica)"},
		{name: "drops letters without ascii form", input: "Łukasz Ødegaard", expected: "ukasz degaard"},
		{name: "cherokee fold is stable", input: "Ꭰ", expected: ""},
		{name: "sharp s folds", input: "Straße", expected: "strasse"},
		{name: "unicode spaces", input: "Ana\u3000Garcia\u00a0Mora", expected: "ana garcia mora"},
		{name: "typo after case fold", input: "RAFEL Soto", expected: "rafael soto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Key(tt.input))
		})
	}
}

func TestPersonName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name", input: "Ana Garcés", expected: "Ana Garcés"},
		{name: "magister prefix", input: "Mgs. Ana  Garcés", expected: "Ana Garcés"},
		{name: "licenciado lower case", input: "lic. juan perez", expected: "juan perez"},
		{name: "stacked honorifics", input: "Dr. Ing. Carlos Erazo", expected: "Carlos Erazo"},
		{name: "glued honorifics", input: "Lic.Dr.Carlos", expected: "Carlos"},
		{name: "stray periods", input: "Juan C. Perez", expected: "Juan C Perez"},
		{name: "honorific alone is kept", input: "Dr", expected: "Dr"},
		{name: "honorific inside name is kept", input: "Juan Ing Perez", expected: "Juan Ing Perez"},
		{name: "name starting like honorific", input: "Ingrid Lopez", expected: "Ingrid Lopez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PersonName(tt.input))
		})
	}
}

func TestPersonKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "rafael soto", PersonKey("ING. Rafel Soto"))
	assert.Equal(t, "maria isabel villena", PersonKey("Mgs. María Isabel  Villena"))
	assert.Equal(t, "juan", PersonKey("Lic€ Juan"))
	assert.Equal(t, "rafael soto", PersonKey("Rafel.Soto"))
}

func TestTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{}},
		{name: "drops initials", input: "juan c perez", expected: []string{"juan", "perez"}},
		{name: "dedupes", input: "perez perez ana", expected: []string{"perez", "ana"}},
		{name: "splits on punctuation", input: "garcia-lopez, ana", expected: []string{"garcia", "lopez", "ana"}},
		{name: "only initials", input: "a b c", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Tokens(tt.input))
		})
	}
}

func TestSmartTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "   ", expected: ""},
		{name: "particles lower", input: "conjunto instrumental o mixto", expected: "Conjunto Instrumental o Mixto"},
		{name: "leading particle capitalized", input: "de la guitarra", expected: "De la Guitarra"},
		{name: "acronym preserved", input: "taller de audio MIDI", expected: "Taller de Audio MIDI"},
		{name: "long upper word title cased", input: "ARMONIA complementaria", expected: "Armonia Complementaria"},
		{name: "accented first letter", input: "érase una vez", expected: "Érase Una Vez"},
		{name: "collapses whitespace", input: "coro   de  la  tarde", expected: "Coro de la Tarde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, SmartTitle(tt.input))
		})
	}
}

// labelGen mixes the alphabet seen in the registry exports with arbitrary
// Unicode so the properties hold beyond Latin text.
func labelGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringOf(rapid.SampledFrom([]rune(
			"abcdeilnoprsuzABCDELNOPRSZáéíóúÁÉÍÓÚñÑüÜº .-'()\t",
		))),
		rapid.String(),
	)
}

// TestPropertyKeyIdempotent verifies Key(Key(s)) == Key(s).
func TestPropertyKeyIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := labelGen().Draw(t, "s")
		once := Key(s)
		if twice := Key(once); twice != once {
			t.Fatalf("Key not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

// TestPropertyPersonKeyIdempotent verifies PersonKey is stable on its own output.
func TestPropertyPersonKeyIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := labelGen().Draw(t, "s")
		once := PersonKey(s)
		if twice := PersonKey(once); twice != once {
			t.Fatalf("PersonKey not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

// TestPropertyKeyHasNoUpperOrMarks verifies keys are folded and mark-free.
func TestPropertyKeyHasNoUpperOrMarks(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		key := Key(labelGen().Draw(t, "s"))
		for _, r := range key {
			if r >= 'A' && r <= 'Z' {
				t.Fatalf("key %q contains upper case %q", key, r)
			}
			if r > 0x7f {
				t.Fatalf("key %q contains non-ASCII rune %q", key, r)
			}
		}
	})
}
