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

// Package normalize turns raw labels from spreadsheet and JSON exports into
// matching keys and display forms.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyFunc maps a raw label to its matching key.
type KeyFunc func(string) string

// knownTypos holds systematic data-entry errors seen in the source exports.
// Both sides are in key form.
var knownTypos = map[string]string{
	"rafel": "rafael",
}

var honorificRe = regexp.MustCompile(`^(?:mgs|lic|dr|ing)$`)

// spanishParticles stay lowercase when not in first position.
var spanishParticles = map[string]struct{}{
	"de": {}, "del": {}, "la": {}, "las": {}, "el": {}, "los": {}, "y": {},
	"o": {}, "en": {}, "para": {}, "con": {}, "a": {}, "al": {}, "por": {},
}

var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII && !unicode.IsSpace(r)
})

// toASCII decomposes with NFKD and drops whatever is left outside ASCII, so
// "é" becomes "e", "º" becomes "o" and "ł" disappears. Unicode spaces survive
// for CollapseSpaces.
func toASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	if out, _, err := transform.String(t, s); err == nil {
		return out
	}
	return strings.Map(func(r rune) rune {
		if nonASCII.Contains(r) {
			return -1
		}
		return r
	}, s)
}

// CollapseSpaces trims s and collapses every run of Unicode whitespace into a
// single ASCII space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fixTypos(words []string) []string {
	for i, w := range words {
		if fix, ok := knownTypos[w]; ok {
			words[i] = fix
		}
	}
	return words
}

// Key returns the matching key for raw: case folded, reduced to ASCII,
// whitespace collapsed and known typos corrected. Key is idempotent.
func Key(raw string) string {
	s := toASCII(cases.Fold().String(raw))
	return strings.Join(fixTypos(strings.Fields(strings.ToLower(s))), " ")
}

// PersonName cleans a person's name for display: stray periods become spaces
// and leading honorifics (Mgs, Lic, Dr, Ing) are removed. Accents and casing
// are preserved.
func PersonName(raw string) string {
	return strings.Join(dropHonorifics(strings.Fields(strings.ReplaceAll(raw, ".", " "))), " ")
}

func dropHonorifics(words []string) []string {
	for len(words) > 1 && honorificRe.MatchString(Key(words[0])) {
		words = words[1:]
	}
	return words
}

// PersonKey is the matching key for people. The person cleanup runs on the
// key itself so the result is stable under PersonKey.
func PersonKey(raw string) string {
	words := strings.Fields(strings.ReplaceAll(Key(raw), ".", " "))
	return strings.Join(fixTypos(dropHonorifics(words)), " ")
}

// Tokens splits a key into its distinct words. Words of a single rune, such as
// middle initials, are dropped.
func Tokens(key string) []string {
	fields := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// SmartTitle title-cases text while keeping Spanish particles lowercase
// (except at the start) and leaving short all-caps acronyms untouched.
//
//	SmartTitle("conjunto instrumental o mixto") → "Conjunto Instrumental o Mixto"
//	SmartTitle("taller de audio MIDI")          → "Taller de Audio MIDI"
func SmartTitle(text string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}

	out := make([]string, len(parts))
	for i, p := range parts {
		if isAcronym(p) {
			out[i] = p
			continue
		}

		lower := strings.ToLower(p)
		if _, ok := spanishParticles[lower]; ok && i != 0 {
			out[i] = lower
			continue
		}

		r, size := utf8.DecodeRuneInString(lower)
		out[i] = string(unicode.ToUpper(r)) + lower[size:]
	}

	return strings.Join(out, " ")
}

// isAcronym reports whether p is all upper case with at most six runes and at
// least one cased letter.
func isAcronym(p string) bool {
	if utf8.RuneCountInString(p) > 6 {
		return false
	}
	cased := false
	for _, r := range p {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
