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

// Package gradelevel parses free-text course and section descriptors into a
// grade level (1 to 11) and section letter.
package gradelevel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/music-registry/reconcile/pkg/normalize"
)

// Key identifies a grade level and section. Level is empty when the course
// text could not be parsed.
type Key struct {
	Level   string
	Section string
}

func (k Key) Valid() bool {
	return k.Level != "" && k.Section != ""
}

// ParaleloKey encodes the key as "11-A", or "" when incomplete.
func (k Key) ParaleloKey() string {
	if !k.Valid() {
		return ""
	}
	return k.Level + "-" + k.Section
}

func (k Key) String() string {
	return fmt.Sprintf("%s '%s'", k.Level, k.Section)
}

type pattern struct {
	key          string
	level        string
	re           *regexp.Regexp
	bachillerato bool
}

const bachilleratoWord = "bachillerato"

// Order matters: longer and more specific forms come first so "1o" never
// wins over "11o (3o bachillerato)".
var levelTable = []struct{ text, level string }{
	{"decimo primer año (3o bachillerato)", "11"},
	{"decimo año (2o bachillerato)", "10"},
	{"noveno año (1o bachillerato)", "9"},
	{"11o (3o bachillerato)", "11"},
	{"10o (2o bachillerato)", "10"},
	{"9o (1o bachillerato)", "9"},
	{"3o bachillerato", "11"},
	{"2o bachillerato", "10"},
	{"1o bachillerato", "9"},
	{"tercero de bachillerato", "11"},
	{"tercer de bachillerato", "11"},
	{"segundo de bachillerato", "10"},
	{"primero de bachillerato", "9"},
	{"primer de bachillerato", "9"},
	{"tercero bachillerato", "11"},
	{"segundo bachillerato", "10"},
	{"primero bachillerato", "9"},

	{"decimo primer año", "11"},
	{"décimo primero año", "11"},
	{"undécimo año", "11"},
	{"décimo año", "10"},
	{"noveno año", "9"},
	{"octavo año", "8"},
	{"séptimo año", "7"},
	{"sexto año", "6"},
	{"quinto año", "5"},
	{"cuarto año", "4"},
	{"tercer año", "3"},
	{"tercero año", "3"},
	{"segundo año", "2"},
	{"primer año", "1"},
	{"primero año", "1"},

	{"décimo primero", "11"},
	{"décimo primer", "11"},
	{"undécimo", "11"},
	{"onceavo", "11"},
	{"décimo", "10"},
	{"noveno", "9"},
	{"octavo", "8"},
	{"séptimo", "7"},
	{"sexto", "6"},
	{"quinto", "5"},
	{"cuarto", "4"},
	{"tercero", "3"},
	{"tercer", "3"},
	{"segundo", "2"},
	{"primero", "1"},
	{"primer", "1"},

	{"11o", "11"}, {"10o", "10"}, {"9o", "9"}, {"8o", "8"}, {"7o", "7"},
	{"6o", "6"}, {"5o", "5"}, {"4o", "4"}, {"3o", "3"}, {"2o", "2"}, {"1o", "1"},

	{"11", "11"}, {"10", "10"}, {"9", "9"}, {"8", "8"}, {"7", "7"},
	{"6", "6"}, {"5", "5"}, {"4", "4"}, {"3", "3"}, {"2", "2"}, {"1", "1"},
}

var patterns = compilePatterns()

func compilePatterns() []pattern {
	out := make([]pattern, 0, len(levelTable))
	for _, e := range levelTable {
		key := normalize.Key(e.text)
		out = append(out, pattern{
			key:          key,
			level:        e.level,
			re:           regexp.MustCompile(`(?:^|[^\pL\pN])` + regexp.QuoteMeta(key) + `(?:$|[^\pL\pN])`),
			bachillerato: strings.Contains(key, bachilleratoWord),
		})
	}
	return out
}

var parenRe = regexp.MustCompile(`\s*\(.*\)\s*`)

// Parse maps course text to a level and section text to a section. The
// section is everything before the first "(". A course that matches no known
// form yields an empty Level.
func Parse(course, section string) Key {
	return Key{Level: ParseLevel(course), Section: ParseSection(section)}
}

func ParseSection(section string) string {
	if i := strings.Index(section, "("); i >= 0 {
		section = section[:i]
	}
	return normalize.CollapseSpaces(section)
}

// ParseLevel tries an exact match on the whole text, then on the text without
// parentheticals, then scans for any known form in table order. Text naming a
// bachillerato year only scans the bachillerato forms, so the short ordinal
// inside "3o bachillerato" is never read as level 3.
func ParseLevel(course string) string {
	full := normalize.Key(course)
	if full == "" {
		return ""
	}
	main := normalize.Key(parenRe.ReplaceAllString(course, " "))

	for _, candidate := range []string{full, main} {
		if candidate == "" {
			continue
		}
		for _, p := range patterns {
			if candidate == p.key {
				return p.level
			}
		}
	}

	scan := main
	if scan == "" {
		scan = full
	}
	onlyBachillerato := strings.Contains(scan, bachilleratoWord)
	for _, p := range patterns {
		if onlyBachillerato && !p.bachillerato {
			continue
		}
		if p.re.MatchString(scan) {
			return p.level
		}
	}
	return ""
}
