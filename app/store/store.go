// Package store keeps the HR records in memory. It backs the list pages and
// the reference dropdowns of the forms.
package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/km-arc/go-rh-forms/app/models"
)

// Table is a concurrency-safe list of records with sequential ids.
type Table[T any] struct {
	mu     sync.RWMutex
	rows   []T
	nextID int
	setID  func(*T, int)
}

// NewTable creates a table; setID stamps the id on inserted records.
func NewTable[T any](setID func(*T, int)) *Table[T] {
	return &Table[T]{nextID: 1, setID: setID}
}

// Insert assigns the next id to v and stores it.
func (t *Table[T]) Insert(v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setID(&v, t.nextID)
	t.nextID++
	t.rows = append(t.rows, v)
	return v
}

// ErrConflict is returned by InsertUnique when an existing row conflicts.
var ErrConflict = errors.New("store: conflicting record")

// InsertUnique stores v unless conflicts reports true for an existing row.
// The scan and the insert happen under one write lock.
func (t *Table[T]) InsertUnique(v T, conflicts func(existing T) bool) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if conflicts(row) {
			return v, ErrConflict
		}
	}
	t.setID(&v, t.nextID)
	t.nextID++
	t.rows = append(t.rows, v)
	return v, nil
}

// All returns a copy of the rows in insertion order.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Store groups the tables of the application.
type Store struct {
	Employees   *Table[models.Employee]
	Projects    *Table[models.Project]
	Departments *Table[models.Department]
	Assignments *Table[models.Assignment]
	Payslips    *Table[models.Payslip]
}

// New returns an empty store.
func New() *Store {
	return &Store{
		Employees:   NewTable(func(v *models.Employee, id int) { v.ID = id }),
		Projects:    NewTable(func(v *models.Project, id int) { v.ID = id }),
		Departments: NewTable(func(v *models.Department, id int) { v.ID = id }),
		Assignments: NewTable(func(v *models.Assignment, id int) { v.ID = id }),
		Payslips:    NewTable(func(v *models.Payslip, id int) { v.ID = id }),
	}
}

// Employee looks an employee up by id.
func (s *Store) Employee(id int) (models.Employee, bool) {
	for _, e := range s.Employees.All() {
		if e.ID == id {
			return e, true
		}
	}
	return models.Employee{}, false
}

// Department looks a department up by id.
func (s *Store) Department(id int) (models.Department, bool) {
	for _, d := range s.Departments.All() {
		if d.ID == id {
			return d, true
		}
	}
	return models.Department{}, false
}

// Project looks a project up by id.
func (s *Store) Project(id int) (models.Project, bool) {
	for _, p := range s.Projects.All() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Seeded returns a store with sample rows dated relative to now.
func Seeded(now time.Time) *Store {
	s := New()
	day := func(years, months, days int) time.Time {
		t := now.AddDate(years, months, days)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	}

	info := s.Departments.Insert(models.Department{Intitule: "Informatique"})
	fin := s.Departments.Insert(models.Department{Intitule: "Finance"})
	rh := s.Departments.Insert(models.Department{Intitule: "Ressources Humaines"})

	dupont := s.Employees.Insert(models.Employee{
		Matricule: "EMP001", Nom: "Dupont", Prenom: "Marie", Email: "marie.dupont@cy-rh.fr",
		Poste: "Développeuse", Grade: "CADRE", Role: "CHEF_PROJET", SalaireBase: 4200,
		DateEmbauche: day(-6, 0, 0), IDDepartement: info.ID,
	})
	martin := s.Employees.Insert(models.Employee{
		Matricule: "EMP002", Nom: "Martin", Prenom: "Lucas", Email: "lucas.martin@cy-rh.fr",
		Poste: "Comptable", Grade: "TECHNICIEN", Role: "EMPLOYE", SalaireBase: 2600,
		DateEmbauche: day(-3, -2, 0), IDDepartement: fin.ID,
	})
	s.Employees.Insert(models.Employee{
		Matricule: "EMP003", Nom: "Durand", Prenom: "Inès", Email: "ines.durand@cy-rh.fr",
		Poste: "Chargée de recrutement", Grade: "CADRE", Role: "CHEF_DEPARTEMENT", SalaireBase: 3900,
		DateEmbauche: day(-8, -5, 0), IDDepartement: rh.ID,
	})
	s.Employees.Insert(models.Employee{
		Matricule: "STG004", Nom: "Bernard", Prenom: "Hugo", Email: "hugo.bernard@cy-rh.fr",
		Poste: "Stagiaire développement", Grade: "STAGIAIRE", Role: "EMPLOYE", SalaireBase: 1100,
		DateEmbauche: day(0, -1, 0),
	})

	plannedEnd := day(0, 6, 0)
	paie := s.Projects.Insert(models.Project{
		NomProjet: "Refonte de la paie", EtatProjet: "EN_COURS",
		DateDebut: day(-1, 0, 0), DateFinPrevue: &plannedEnd, IDDepartement: info.ID,
	})
	ended := day(0, -2, 0)
	s.Projects.Insert(models.Project{
		NomProjet: "Audit comptable", EtatProjet: "TERMINE",
		DateDebut: day(-2, 0, 0), DateFinPrevue: &ended, DateFinReelle: &ended, IDDepartement: fin.ID,
	})

	s.Assignments.Insert(models.Assignment{IDEmployer: dupont.ID, IDProjet: paie.ID, DateAffectation: day(-1, 0, 0)})
	s.Assignments.Insert(models.Assignment{IDEmployer: martin.ID, IDProjet: paie.ID, DateAffectation: day(0, -3, 0)})

	last := day(0, -1, 0)
	for _, e := range []models.Employee{dupont, martin} {
		p := models.Payslip{
			IDEmployer: e.ID, Mois: int(last.Month()), Annee: last.Year(),
			SalaireBase: e.SalaireBase, Primes: 150, Deductions: e.SalaireBase * 0.22,
			DateGeneration: day(0, 0, -1),
		}
		p.ComputeNet()
		s.Payslips.Insert(p)
	}
	return s
}
