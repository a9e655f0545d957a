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

// Package catalog holds the known entities that raw labels are matched
// against.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/music-registry/reconcile/pkg/normalize"
)

type Kind string

const (
	KindTeacher Kind = "teacher"
	KindStudent Kind = "student"
	KindSubject Kind = "subject"
)

var ErrUnknownKind = errors.New("unknown entity kind")

// Kinds lists every entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTeacher, KindStudent, KindSubject}
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTeacher, KindStudent, KindSubject:
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
}

// KeyFunc returns the normalizer used for labels of this kind. People get
// honorifics and stray periods removed before normalization.
func (k Kind) KeyFunc() normalize.KeyFunc {
	switch k {
	case KindTeacher, KindStudent:
		return normalize.PersonKey
	default:
		return normalize.Key
	}
}

// Entry is one raw catalog record.
type Entry struct {
	ID   string
	Name string
}

// Candidate is a catalog entry prepared for matching.
type Candidate struct {
	ID     string
	Name   string
	Key    string
	Kind   Kind
	Tokens []string
}

// Pool is the read-only set of candidates for one kind.
type Pool struct {
	byKey      map[string]int
	kind       Kind
	candidates []Candidate
	duplicates []string
}

// NewPool prepares entries for matching. Entries whose key is empty are
// skipped. When several entries share a key, ByKey returns the first one and
// the key is reported by Duplicates.
func NewPool(kind Kind, entries []Entry) *Pool {
	keyFn := kind.KeyFunc()
	p := &Pool{
		kind:       kind,
		candidates: make([]Candidate, 0, len(entries)),
		byKey:      make(map[string]int, len(entries)),
	}

	dupSeen := make(map[string]struct{})
	for _, e := range entries {
		key := keyFn(e.Name)
		if key == "" {
			continue
		}

		c := Candidate{
			ID:     strings.TrimSpace(e.ID),
			Name:   displayName(kind, e.Name),
			Key:    key,
			Tokens: normalize.Tokens(key),
			Kind:   kind,
		}

		if _, ok := p.byKey[key]; ok {
			if _, seen := dupSeen[key]; !seen {
				dupSeen[key] = struct{}{}
				p.duplicates = append(p.duplicates, key)
			}
		} else {
			p.byKey[key] = len(p.candidates)
		}
		p.candidates = append(p.candidates, c)
	}

	return p
}

func displayName(kind Kind, raw string) string {
	if kind == KindSubject {
		return normalize.CollapseSpaces(raw)
	}
	return normalize.PersonName(raw)
}

func (p *Pool) Kind() Kind {
	if p == nil {
		return ""
	}
	return p.kind
}

func (p *Pool) KeyFunc() normalize.KeyFunc {
	return p.Kind().KeyFunc()
}

// Candidates returns the pool's candidates. The slice must not be modified.
func (p *Pool) Candidates() []Candidate {
	if p == nil {
		return nil
	}
	return p.candidates
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.candidates)
}

// ByKey returns the first candidate with the given normalized key.
func (p *Pool) ByKey(key string) (Candidate, bool) {
	if p == nil {
		return Candidate{}, false
	}
	i, ok := p.byKey[key]
	if !ok {
		return Candidate{}, false
	}
	return p.candidates[i], true
}

// Duplicates lists keys carried by more than one entry, in first-seen order.
func (p *Pool) Duplicates() []string {
	if p == nil {
		return nil
	}
	return p.duplicates
}

// Entries returns the pool as raw entries, in pool order.
func (p *Pool) Entries() []Entry {
	entries := make([]Entry, 0, p.Len())
	for _, c := range p.Candidates() {
		entries = append(entries, Entry{ID: c.ID, Name: c.Name})
	}
	return entries
}
