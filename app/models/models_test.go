package models_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/km-arc/go-rh-forms/app/models"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

var fixedNow = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

func newValidator() *models.Validator {
	return models.NewValidator(func() time.Time { return fixedNow })
}

func employeeFields() map[string]string {
	return map[string]string{
		"matricule":    "EMP001",
		"nom":          "Dupont",
		"prenom":       "Marie-Hélène",
		"email":        "marie.dupont@cy-rh.fr",
		"telephone":    "06 12 34 56 78",
		"poste":        "Développeur",
		"grade":        "CADRE",
		"role":         "EMPLOYE",
		"salaireBase":  "3200.50",
		"dateEmbauche": "2024-03-01",
	}
}

func TestBind_ValidEmployee(t *testing.T) {
	var e models.Employee
	msgs := newValidator().Bind(employeeFields(), &e)
	if msgs.Has() {
		t.Fatalf("unexpected errors: %v", msgs.Bag)
	}
	if e.SalaireBase != 3200.50 || e.FullName() != "Marie-Hélène Dupont" {
		t.Errorf("decoded: %+v", e)
	}
	if got := e.DateEmbauche.Format(validation.DateLayout); got != "2024-03-01" {
		t.Errorf("hire date: %s", got)
	}
}

func TestBind_EmployeeErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"lowercase matricule", "matricule", "emp001", "Le matricule ne doit contenir que des lettres majuscules et chiffres"},
		{"short matricule", "matricule", "E1", "Le matricule doit contenir entre 3 et 30 caractères"},
		{"digits in name", "nom", "Dup0nt", "Le nom ne doit contenir que des lettres"},
		{"bad email", "email", "marie@", "L'email doit être valide"},
		{"bad phone", "telephone", "12", validation.MsgPhone},
		{"unknown grade", "grade", "PDG", "Grade inconnu"},
		{"low salary", "salaireBase", "999.99", "Le salaire de base doit être au minimum 1000€"},
		{"salary not a number", "salaireBase", "beaucoup", validation.MsgSalaryNumber},
		{"future hire", "dateEmbauche", "2026-10-19", "La date d'embauche ne peut pas être dans le futur"},
		{"malformed date", "dateEmbauche", "18/10/2026", validation.MsgDateFormat},
		{"missing email", "email", "", "L'email est obligatoire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := employeeFields()
			fields[tt.field] = tt.value
			var e models.Employee
			msgs := newValidator().Bind(fields, &e)
			if diff := cmp.Diff(map[string]string{tt.field: tt.want}, msgs.Bag); diff != "" {
				t.Errorf("messages (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBind_HireDateToday(t *testing.T) {
	fields := employeeFields()
	fields["dateEmbauche"] = "2026-10-18"
	var e models.Employee
	if msgs := newValidator().Bind(fields, &e); msgs.Has() {
		t.Errorf("today is allowed: %v", msgs.Bag)
	}
}

func TestBind_ProjectDates(t *testing.T) {
	var p models.Project
	msgs := newValidator().Bind(map[string]string{
		"nomProjet":     "Migration Paie",
		"dateDebut":     "2026-05-01",
		"dateFinPrevue": "2026-04-30",
		"dateFinReelle": "2026-05-01",
	}, &p)
	want := map[string]string{
		"dateFinPrevue": "La date de fin prévue doit être après la date de début",
		"dateFinReelle": "La date de fin réelle doit être après la date de début",
	}
	if diff := cmp.Diff(want, msgs.Bag); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if p.EtatProjet != "EN_COURS" {
		t.Errorf("default state: %q", p.EtatProjet)
	}
}

func TestBind_Assignment(t *testing.T) {
	var a models.Assignment
	msgs := newValidator().Bind(map[string]string{
		"idEmployer":         "1",
		"idProjet":           "",
		"dateAffectation":    "2026-10-18",
		"dateFinAffectation": "2026-10-01",
	}, &a)
	want := map[string]string{
		"idProjet":           "Le projet est obligatoire",
		"dateFinAffectation": "La date de fin doit être après la date d'affectation",
	}
	if diff := cmp.Diff(want, msgs.Bag); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBind_Payslip(t *testing.T) {
	v := newValidator()

	var ok models.Payslip
	msgs := v.Bind(map[string]string{
		"idEmployer": "1", "mois": "9", "annee": "2026",
		"salaireBase": "3000", "primes": "500", "deductions": "700",
		"dateGeneration": "2026-10-01",
	}, &ok)
	if msgs.Has() {
		t.Fatalf("unexpected errors: %v", msgs.Bag)
	}
	if ok.NetAPayer != 2800 {
		t.Errorf("net: %v", ok.NetAPayer)
	}

	var bad models.Payslip
	msgs = v.Bind(map[string]string{
		"idEmployer": "1", "mois": "11", "annee": "2026",
		"salaireBase": "3000", "deductions": "3500",
		"dateGeneration": "2026-10-01",
	}, &bad)
	want := map[string]string{
		"mois":       "Impossible de créer une fiche de paie pour un mois futur",
		"deductions": "Les déductions ne peuvent pas dépasser le salaire total",
	}
	if diff := cmp.Diff(want, msgs.Bag); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestStruct_Department(t *testing.T) {
	msgs := newValidator().Struct(models.Department{Intitule: "RH"})
	if got := msgs.Get("intitule"); got != "L'intitulé doit contenir entre 3 et 100 caractères" {
		t.Errorf("got %q", got)
	}
}
