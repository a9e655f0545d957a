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


package etl

import (
	"strings"

	"github.com/music-registry/reconcile/pkg/audit"
	"github.com/music-registry/reconcile/pkg/catalog"
	"github.com/music-registry/reconcile/pkg/database"
	"github.com/music-registry/reconcile/pkg/dataset"
	"github.com/music-registry/reconcile/pkg/gradelevel"
	"github.com/music-registry/reconcile/pkg/matcher"
	"github.com/music-registry/reconcile/pkg/normalize"
)

const (
	JobSchedules   = "schedules"
	JobEnsembles   = "ensembles"
	JobTutors      = "tutors"
	JobInstruments = "instruments"
)

// Header cells that exports repeat as data rows.
var (
	ensembleHeaderNumber = keyOf("No")
	ensembleHeaderName   = keyOf("Apellidos del estudiante Nombres del estudiante")
	missingTeacher       = keyOf("ND")
)

// Placeholders the instrument exports put in the teacher column.
var placeholderTeachers = personKeySet("piano", "maestro de instrumento", "nulo", "violín", "nd", "sin docente")

func personKeySet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[normalize.PersonKey(name)] = struct{}{}
	}
	return set
}

// defaultSection is used when an instrument row leaves the section blank.
const defaultSection = "A"

// entityID returns the catalog id of a matched result. An alias can point
// at a canonical name that is not in the catalog; such rows are skipped.
func entityID(env *Env, kind catalog.Kind, raw string, res matcher.Result) (string, bool) {
	if res.Candidate.ID != "" {
		return res.Candidate.ID, true
	}
	env.Skip(audit.Inconsistencies, "%s %q resolves to %q which is not in the catalog",
		kind, strings.TrimSpace(raw), res.Canonical)
	return "", false
}

// schedulesJob imports the teachers' weekly schedule: one row per class
// slot with the course, section, teacher, subject, day, hour and room.
type schedulesJob struct{}

func (schedulesJob) Name() string {
	return JobSchedules
}

func (schedulesJob) Kinds() []catalog.Kind {
	return []catalog.Kind{catalog.KindTeacher}
}

func (schedulesJob) Handle(env *Env, row dataset.Row) error {
	course, section := row.Get("curso"), row.Get("paralelo")
	grade := gradelevel.Parse(course, section)
	if !grade.Valid() {
		env.Skip(audit.GradeParseFailures, "could not determine grade/section from curso=%q, paralelo=%q",
			course, section)
		return nil
	}

	teacher := row.Get("docente")
	if teacher == "" || keyOf(teacher) == missingTeacher {
		env.Skip(audit.Inconsistencies, "teacher name is 'ND' or missing (pk=%s)", row.PK)
		return nil
	}

	res := env.Resolve(catalog.KindTeacher, teacher)
	if !res.Matched() {
		return nil
	}
	teacherID, ok := entityID(env, catalog.KindTeacher, teacher, res)
	if !ok {
		return nil
	}

	raw := row.Get("clase")
	if raw == "" {
		env.Skip(audit.Inconsistencies, "record pk=%s for teacher %s has no subject name",
			row.PK, res.Candidate.Name)
		return nil
	}
	subject, ok := env.Subject(raw)
	if !ok {
		return nil
	}

	env.Assign(database.Assignment{
		GradeLevel: grade.ParaleloKey(),
		Subject:    subject,
		TeacherID:  teacherID,
		Day:        strings.ToUpper(row.Get("dia")),
		Slot:       row.Get("hora"),
		Room:       row.Get("aula"),
	})
	return nil
}

// ensemblesJob enrolls students in the ensemble (orchestra, band, choir)
// they signed up for.
type ensemblesJob struct{}

func (ensemblesJob) Name() string {
	return JobEnsembles
}

func (ensemblesJob) Kinds() []catalog.Kind {
	return []catalog.Kind{catalog.KindStudent}
}

func (ensemblesJob) Handle(env *Env, row dataset.Row) error {
	if keyOf(row.Get("numero")) == ensembleHeaderNumber {
		env.Ignore()
		return nil
	}
	name := row.Get("nombre_completo")
	if name == "" || keyOf(name) == ensembleHeaderName {
		env.Ignore()
		return nil
	}

	group := row.Get("agrupacion")
	course := row.Get("ano_de_estudio")
	// The section column carries a long instruction as its header.
	section := row.GetPrefix("paralelo")
	if group == "" || course == "" || section == "" {
		env.Skip(audit.Inconsistencies, "missing data for %s: agrupacion=%q, ano_de_estudio=%q, paralelo=%q",
			name, group, course, section)
		return nil
	}

	res := env.Resolve(catalog.KindStudent, name)
	if !res.Matched() {
		return nil
	}
	studentID, ok := entityID(env, catalog.KindStudent, name, res)
	if !ok {
		return nil
	}

	grade := gradelevel.Parse(course, section)
	if !grade.Valid() {
		env.Skip(audit.GradeParseFailures,
			"could not determine grade/section for student %s from ano_de_estudio=%q, paralelo=%q",
			res.Candidate.Name, course, section)
		return nil
	}

	subject, ok := env.Subject(group)
	if !ok {
		return nil
	}

	env.Assign(database.Assignment{
		GradeLevel: grade.ParaleloKey(),
		Subject:    subject,
		StudentID:  studentID,
	})
	return nil
}

// tutorsJob records the tutor of record of each grade level.
type tutorsJob struct{}

func (tutorsJob) Name() string {
	return JobTutors
}

func (tutorsJob) Kinds() []catalog.Kind {
	return []catalog.Kind{catalog.KindTeacher}
}

func (tutorsJob) Handle(env *Env, row dataset.Row) error {
	course, section, tutor := row.Get("curso"), row.Get("paralelo"), row.Get("tutor")
	if course == "" || section == "" || tutor == "" {
		env.Skip(audit.Inconsistencies, "missing data: curso=%q, paralelo=%q, tutor=%q", course, section, tutor)
		return nil
	}

	grade := gradelevel.Parse(course, section)
	if !grade.Valid() {
		env.Skip(audit.GradeParseFailures, "could not map curso=%q, paralelo=%q to a grade level",
			course, section)
		return nil
	}

	res := env.Resolve(catalog.KindTeacher, tutor)
	if !res.Matched() {
		return nil
	}
	teacherID, ok := entityID(env, catalog.KindTeacher, tutor, res)
	if !ok {
		return nil
	}

	env.Assign(database.Assignment{
		GradeLevel: grade.ParaleloKey(),
		TeacherID:  teacherID,
	})
	return nil
}

// instrumentsJob enrolls students in individual instrument classes with
// their teacher. It is the only job that needs both person catalogs.
type instrumentsJob struct{}

func (instrumentsJob) Name() string {
	return JobInstruments
}

func (instrumentsJob) Kinds() []catalog.Kind {
	return []catalog.Kind{catalog.KindTeacher, catalog.KindStudent}
}

func (instrumentsJob) Handle(env *Env, row dataset.Row) error {
	teacher, student := row.Get("docente_nombre"), row.Get("full_name")
	if teacher == "" || student == "" {
		env.Ignore()
		return nil
	}
	if _, ok := placeholderTeachers[normalize.PersonKey(teacher)]; ok {
		env.Ignore()
		return nil
	}

	// Both names are resolved so each unmatched side reaches its own log.
	studentRes := env.Resolve(catalog.KindStudent, student)
	teacherRes := env.Resolve(catalog.KindTeacher, teacher)
	if !studentRes.Matched() || !teacherRes.Matched() {
		return nil
	}
	studentID, ok := entityID(env, catalog.KindStudent, student, studentRes)
	if !ok {
		return nil
	}
	teacherID, ok := entityID(env, catalog.KindTeacher, teacher, teacherRes)
	if !ok {
		return nil
	}

	raw := row.Get("clase")
	if raw == "" {
		env.Skip(audit.Inconsistencies, "record pk=%s for student %s has no instrument class",
			row.PK, studentRes.Candidate.Name)
		return nil
	}

	course, section := row.Get("grado"), row.Get("paralelo")
	grade := gradelevel.Parse(course, section)
	if grade.Section == "" {
		grade.Section = defaultSection
	}
	if !grade.Valid() {
		env.Skip(audit.GradeParseFailures, "could not determine grade for student %s from grado=%q",
			studentRes.Candidate.Name, course)
		return nil
	}

	subject, ok := env.Subject(raw)
	if !ok {
		return nil
	}

	env.Assign(database.Assignment{
		GradeLevel: grade.ParaleloKey(),
		Subject:    subject,
		TeacherID:  teacherID,
		StudentID:  studentID,
	})
	return nil
}
