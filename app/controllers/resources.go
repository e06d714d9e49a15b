package controllers

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/km-arc/go-rh-forms/app/models"
	"github.com/km-arc/go-rh-forms/app/store"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Resource describes one HR entity: its list page, its form and how a
// submission becomes a stored record.
type Resource struct {
	Name      string // route parameter of the validation API
	Path      string
	Title     string
	FormTitle string
	TableID   string
	FormView  string
	FormID    string
	Headers   []string
	Rows      func(s *store.Store) [][]string

	// Bind decodes and validates fields; commit stores the record and must
	// only be called when msgs is empty. commit re-checks uniqueness under
	// the store lock and returns the messages of a late conflict.
	Bind func(s *store.Store, v *models.Validator, fields map[string]string) (commit Commit, msgs validation.Messages)
}

// Commit stores a validated record.
type Commit func(*store.Store) validation.Messages

// binder adapts a model type to Resource.Bind. refs checks references
// against the store and may be nil.
func binder[T any, PT interface {
	*T
	models.Fillable
}](refs func(*store.Store, *T, *validation.Messages), insert func(*store.Store, T) validation.Messages) func(*store.Store, *models.Validator, map[string]string) (Commit, validation.Messages) {
	return func(s *store.Store, v *models.Validator, fields map[string]string) (Commit, validation.Messages) {
		var m T
		msgs := v.Bind(fields, PT(&m))
		if refs != nil {
			refs(s, &m, &msgs)
		}
		return func(s *store.Store) validation.Messages { return insert(s, m) }, msgs
	}
}

const (
	msgUnknownRef          = "Sélection invalide"
	msgDuplicateDepartment = "Un département avec cet intitulé existe déjà"
)

func sameDepartment(d models.Department) func(models.Department) bool {
	return func(other models.Department) bool {
		return strings.EqualFold(strings.TrimSpace(other.Intitule), strings.TrimSpace(d.Intitule))
	}
}

// setIfFree records msg unless field already carries one.
func setIfFree(msgs *validation.Messages, field, msg string) {
	if msgs.Get(field) == "" {
		msgs.Set(field, msg)
	}
}

// Resources returns the HR resources in menu order.
func Resources() []*Resource {
	return []*Resource{
		{
			Name: "employees", Path: "/employees",
			Title: "Employés", FormTitle: "Nouvel employé",
			TableID: "employeesTable", FormView: "employee_form", FormID: "employeeForm",
			Headers: []string{"ID", "Matricule", "Nom", "Prénom", "Email", "Poste", "Grade", "Département", "Actions"},
			Rows:    employeeRows,
			Bind: binder[models.Employee](
				func(s *store.Store, e *models.Employee, msgs *validation.Messages) {
					if e.IDDepartement == 0 {
						return
					}
					if _, ok := s.Department(e.IDDepartement); !ok {
						setIfFree(msgs, "idDepartement", "Le département sélectionné est invalide")
					}
				},
				func(s *store.Store, e models.Employee) validation.Messages {
					s.Employees.Insert(e)
					return validation.Messages{}
				},
			),
		},
		{
			Name: "departements", Path: "/departements",
			Title: "Départements", FormTitle: "Nouveau département",
			TableID: "departmentsTable", FormView: "departement_form", FormID: "departmentForm",
			Headers: []string{"ID", "Intitulé", "Chef de département", "Effectif", "Actions"},
			Rows:    departmentRows,
			Bind: binder[models.Department](
				func(s *store.Store, d *models.Department, msgs *validation.Messages) {
					if slices.ContainsFunc(s.Departments.All(), sameDepartment(*d)) {
						setIfFree(msgs, "intitule", msgDuplicateDepartment)
					}
					if d.ChefDepartement != 0 {
						if _, ok := s.Employee(d.ChefDepartement); !ok {
							setIfFree(msgs, "chefDepartement", msgUnknownRef)
						}
					}
				},
				func(s *store.Store, d models.Department) (msgs validation.Messages) {
					if _, err := s.Departments.InsertUnique(d, sameDepartment(d)); errors.Is(err, store.ErrConflict) {
						msgs.Set("intitule", msgDuplicateDepartment)
					}
					return msgs
				},
			),
		},
		{
			Name: "projets", Path: "/projets",
			Title: "Projets", FormTitle: "Nouveau projet",
			TableID: "projectsTable", FormView: "projet_form", FormID: "projectForm",
			Headers: []string{"ID", "Nom du projet", "État", "Début", "Fin prévue", "Département", "Actions"},
			Rows:    projectRows,
			Bind: binder[models.Project](nil,
				func(s *store.Store, p models.Project) validation.Messages {
					s.Projects.Insert(p)
					return validation.Messages{}
				},
			),
		},
		{
			Name: "affectations", Path: "/affectations",
			Title: "Affectations", FormTitle: "Nouvelle affectation",
			TableID: "assignmentsTable", FormView: "affectation_form", FormID: "assignmentForm",
			Headers: []string{"ID", "Employé", "Projet", "Date d'affectation", "Date de fin", "Actions"},
			Rows:    assignmentRows,
			Bind: binder[models.Assignment](
				func(s *store.Store, a *models.Assignment, msgs *validation.Messages) {
					if _, ok := s.Employee(a.IDEmployer); a.IDEmployer != 0 && !ok {
						setIfFree(msgs, "idEmployer", msgUnknownRef)
					}
					if _, ok := s.Project(a.IDProjet); a.IDProjet != 0 && !ok {
						setIfFree(msgs, "idProjet", "Projet introuvable")
					}
				},
				func(s *store.Store, a models.Assignment) validation.Messages {
					s.Assignments.Insert(a)
					return validation.Messages{}
				},
			),
		},
		{
			Name: "fiches-paie", Path: "/fiches-paie",
			Title: "Fiches de paie", FormTitle: "Nouvelle fiche de paie",
			TableID: "payslipsTable", FormView: "fiche_paie_form", FormID: "payslipForm",
			Headers: []string{"ID", "Employé", "Période", "Salaire de base", "Primes", "Déductions", "Net à payer", "Actions"},
			Rows:    payslipRows,
			Bind: binder[models.Payslip](
				func(s *store.Store, p *models.Payslip, msgs *validation.Messages) {
					if _, ok := s.Employee(p.IDEmployer); p.IDEmployer != 0 && !ok {
						setIfFree(msgs, "idEmployer", msgUnknownRef)
					}
				},
				func(s *store.Store, p models.Payslip) validation.Messages {
					s.Payslips.Insert(p)
					return validation.Messages{}
				},
			),
		},
	}
}

// ── list rows ────────────────────────────────────────────────────────────────

const actions = "✏️ 🗑️"

func employeeRows(s *store.Store) [][]string {
	var rows [][]string
	for _, e := range s.Employees.All() {
		rows = append(rows, []string{
			strconv.Itoa(e.ID), e.Matricule, e.Nom, e.Prenom, e.Email, e.Poste,
			e.Grade, departmentName(s, e.IDDepartement), actions,
		})
	}
	return rows
}

func departmentRows(s *store.Store) [][]string {
	headcount := make(map[int]int)
	for _, e := range s.Employees.All() {
		headcount[e.IDDepartement]++
	}
	var rows [][]string
	for _, d := range s.Departments.All() {
		chief := "-"
		if e, ok := s.Employee(d.ChefDepartement); ok {
			chief = e.FullName()
		}
		rows = append(rows, []string{strconv.Itoa(d.ID), d.Intitule, chief, strconv.Itoa(headcount[d.ID]), actions})
	}
	return rows
}

func projectRows(s *store.Store) [][]string {
	var rows [][]string
	for _, p := range s.Projects.All() {
		rows = append(rows, []string{
			strconv.Itoa(p.ID), p.NomProjet, p.EtatProjet, date(p.DateDebut), optionalDate(p.DateFinPrevue),
			departmentName(s, p.IDDepartement), actions,
		})
	}
	return rows
}

func assignmentRows(s *store.Store) [][]string {
	var rows [][]string
	for _, a := range s.Assignments.All() {
		employee, project := "-", "-"
		if e, ok := s.Employee(a.IDEmployer); ok {
			employee = e.FullName()
		}
		if p, ok := s.Project(a.IDProjet); ok {
			project = p.NomProjet
		}
		rows = append(rows, []string{
			strconv.Itoa(a.ID), employee, project, date(a.DateAffectation), optionalDate(a.DateFinAffectation), actions,
		})
	}
	return rows
}

func payslipRows(s *store.Store) [][]string {
	var rows [][]string
	for _, p := range s.Payslips.All() {
		employee := "-"
		if e, ok := s.Employee(p.IDEmployer); ok {
			employee = e.FullName()
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID), employee, fmt.Sprintf("%02d/%d", p.Mois, p.Annee),
			euros(p.SalaireBase), euros(p.Primes), euros(p.Deductions), euros(p.NetAPayer), actions,
		})
	}
	return rows
}

func departmentName(s *store.Store, id int) string {
	if d, ok := s.Department(id); ok {
		return d.Intitule
	}
	return "-"
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(validation.DateLayout)
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return date(*t)
}

func euros(n float64) string { return fmt.Sprintf("%.2f €", n) }
