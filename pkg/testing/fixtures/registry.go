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


// Package fixtures holds sample catalogs and exports shared by tests.
package fixtures

import (
	"time"

	"github.com/music-registry/reconcile/pkg/database"
)

// TeachersJSON is a teacher catalog export in Django fixture form.
const TeachersJSON = `[
  {"model": "teachers.teacher", "pk": 1, "fields": {"full_name": "Juan Carlos Perez Lopez"}},
  {"model": "teachers.teacher", "pk": 2, "fields": {"full_name": "Maria Isabel Villena Cardenas"}},
  {"model": "teachers.teacher", "pk": 3, "fields": {"full_name": "Jorge Javier Arias Cuenca"}},
  {"model": "teachers.teacher", "pk": 4, "fields": {"full_name": "Ines Maria Larreategui Feijoo"}}
]`

// StudentsJSONL is a student catalog in JSON Lines form.
const StudentsJSONL = `{"pk": "s1", "full_name": "Ana Sofia Garcia Mora"}
{"pk": "s2", "full_name": "Luis Miguel Toapanta Cruz"}
{"pk": "s3", "full_name": "Camila Andrea Guaman Paz"}
`

// SubjectAliasesJSON maps ensemble names to the subjects they belong to.
const SubjectAliasesJSON = `{
  "Coro Matutino": "Coro",
  "Coro Vespertino": "Coro",
  "Orquesta Matutina": "Orquesta Pedagógica"
}`

// TeacherAliasesJSON maps a nickname used in schedules to a catalog name.
const TeacherAliasesJSON = `{
  "Profe Chabela": "Maria Isabel Villena Cardenas"
}`

// SchedulesJSON is a schedule export. Row 2 has no teacher, row 4 cannot
// be matched and row 5 has a course that is not a grade level.
const SchedulesJSON = `[
  {"pk": 10, "fields": {"curso": "Decimo Primer Año (3o Bachillerato)", "paralelo": "A",
    "docente": "Lic. Juan Carlos Perez Lopez", "clase": "lenguaje musical", "dia": "lunes",
    "hora": "07:00-07:45", "aula": "A1"}},
  {"pk": 11, "fields": {"curso": "Octavo", "paralelo": "B", "docente": "ND", "clase": "Coro",
    "dia": "martes", "hora": "08:00", "aula": "B2"}},
  {"pk": 12, "fields": {"curso": "Octavo", "paralelo": "B (vespertina)", "docente": "Profe Chabela",
    "clase": "Coro Vespertino", "dia": "miercoles", "hora": "09:00", "aula": "B2"}},
  {"pk": 13, "fields": {"curso": "Noveno", "paralelo": "C", "docente": "Pedro Zambrano",
    "clase": "Piano", "dia": "jueves", "hora": "10:00", "aula": "C3"}},
  {"pk": 14, "fields": {"curso": "Taller libre", "paralelo": "A", "docente": "Jorge Arias",
    "clase": "Guitarra", "dia": "viernes", "hora": "11:00", "aula": "D4"}}
]`

// EnsemblesJSON is a flat ensemble sign-up export with its header row
// repeated as the first record.
const EnsemblesJSON = `[
  {"numero": "No", "nombre_completo": "Apellidos del estudiante Nombres del estudiante",
    "agrupacion": "Agrupación", "ano_de_estudio": "Año",
    "paralelo_senalar_el_mismo_paralelo_en_el_que_estuvieron_el_ano_anterior": "Paralelo"},
  {"numero": "1", "nombre_completo": "Garcia Mora Ana Sofia", "agrupacion": "Coro Matutino",
    "ano_de_estudio": "10o (2o Bachillerato)",
    "paralelo_senalar_el_mismo_paralelo_en_el_que_estuvieron_el_ano_anterior": "A (matutina)"},
  {"numero": "2", "nombre_completo": "Toapanta Cruz Luis Miguel", "agrupacion": "",
    "ano_de_estudio": "9o",
    "paralelo_senalar_el_mismo_paralelo_en_el_que_estuvieron_el_ano_anterior": "B"}
]`

// TutorsJSON assigns a tutor to each grade level.
const TutorsJSON = `[
  {"pk": 1, "fields": {"curso": "Decimo Año (2O Bachillerato)", "paralelo": "A",
    "tutor": "Jorge Javier Arias Cuenca"}},
  {"pk": 2, "fields": {"curso": "Septimo", "paralelo": "", "tutor": "Ines Maria Larreategui Feijoo"}}
]`

// InstrumentsJSON pairs students with their instrument teacher. The export
// fills the teacher column with placeholders when no teacher is assigned.
const InstrumentsJSON = `[
  {"pk": 20, "fields": {"full_name": "Ana Sofia Garcia Mora", "docente_nombre": "Mgs. Jorge Javier Arias Cuenca",
    "clase": "piano complementario", "grado": "8o", "paralelo": "B (vespertina)"}},
  {"pk": 21, "fields": {"full_name": "Luis Miguel Toapanta Cruz", "docente_nombre": "Piano",
    "clase": "Piano", "grado": "9o", "paralelo": "A"}},
  {"pk": 22, "fields": {"full_name": "Camila Andrea Guaman Paz", "docente_nombre": "Sin Docente",
    "clase": "Violín", "grado": "9o", "paralelo": "A"}},
  {"pk": 23, "fields": {"full_name": "Pedro Zambrano", "docente_nombre": "Jorge Javier Arias Cuenca",
    "clase": "Guitarra", "grado": "7o", "paralelo": "A"}},
  {"pk": 24, "fields": {"full_name": "Luis Miguel Toapanta Cruz", "docente_nombre": "Xiomara Quishpe",
    "clase": "Guitarra", "grado": "9o", "paralelo": "A"}},
  {"pk": 25, "fields": {"full_name": "Camila Andrea Guaman Paz", "docente_nombre": "Ines Maria Larreategui Feijoo",
    "clase": "Canto", "grado": "Taller", "paralelo": ""}}
]`

// Entities is a teacher catalog snapshot as kept by the store.
var Entities = []database.Entity{
	{
		Kind:       "teacher",
		ExternalID: "1",
		Name:       "Juan Carlos Perez Lopez",
		NameKey:    "juan carlos perez lopez",
		UpdatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	},
	{
		Kind:       "teacher",
		ExternalID: "3",
		Name:       "Jorge Javier Arias Cuenca",
		NameKey:    "jorge javier arias cuenca",
		UpdatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	},
}
