// Package models holds the HR entities and their authoritative validation.
// Browser-side verdicts from framework/forms are advisory; these struct tags
// decide whether a record is stored.
package models

import "time"

// Grades offered by the employee form.
var Grades = []string{"STAGIAIRE", "TECHNICIEN", "AGENT_MAITRISE", "CADRE", "CADRE_SUPERIEUR"}

// Roles offered by the employee form.
var Roles = []string{"EMPLOYE", "CHEF_DEPARTEMENT", "CHEF_PROJET", "ADMIN"}

// Project states.
var ProjectStates = []string{"EN_COURS", "TERMINE", "ANNULE"}

type Employee struct {
	ID            int       `json:"id"`
	Matricule     string    `json:"matricule" form:"matricule" validate:"required,min=3,max=30,matricule"`
	Nom           string    `json:"nom" form:"nom" validate:"required,min=2,max=50,personname"`
	Prenom        string    `json:"prenom" form:"prenom" validate:"required,min=2,max=50,personname"`
	Email         string    `json:"email" form:"email" validate:"required,email,max=100"`
	Telephone     string    `json:"telephone" form:"telephone" validate:"omitempty,phonefr"`
	Poste         string    `json:"poste" form:"poste" validate:"required,min=3,max=100"`
	Grade         string    `json:"grade" form:"grade" validate:"required,oneof=STAGIAIRE TECHNICIEN AGENT_MAITRISE CADRE CADRE_SUPERIEUR"`
	Role          string    `json:"role" form:"role" validate:"required,oneof=EMPLOYE CHEF_DEPARTEMENT CHEF_PROJET ADMIN"`
	SalaireBase   float64   `json:"salaireBase" form:"salaireBase" validate:"required,gte=1000,lte=1000000"`
	DateEmbauche  time.Time `json:"dateEmbauche" form:"dateEmbauche" validate:"required,pastorpresent"`
	IDDepartement int       `json:"idDepartement,omitempty" form:"idDepartement"`
}

// FullName is "Prénom Nom".
func (e Employee) FullName() string { return e.Prenom + " " + e.Nom }

type Project struct {
	ID            int        `json:"id"`
	NomProjet     string     `json:"nomProjet" form:"nomProjet" validate:"required,min=3,max=150"`
	EtatProjet    string     `json:"etatProjet" form:"etatProjet" validate:"required,oneof=EN_COURS TERMINE ANNULE"`
	DateDebut     time.Time  `json:"dateDebut" form:"dateDebut" validate:"required"`
	DateFinPrevue *time.Time `json:"dateFinPrevue,omitempty" form:"dateFinPrevue"`
	DateFinReelle *time.Time `json:"dateFinReelle,omitempty" form:"dateFinReelle"`
	IDDepartement int        `json:"idDepartement,omitempty" form:"idDepartement"`
}

type Department struct {
	ID              int    `json:"id"`
	Intitule        string `json:"intitule" form:"intitule" validate:"required,min=3,max=100"`
	ChefDepartement int    `json:"chefDepartement,omitempty" form:"chefDepartement"`
}

type Assignment struct {
	ID                 int        `json:"id"`
	IDEmployer         int        `json:"idEmployer" form:"idEmployer" validate:"required"`
	IDProjet           int        `json:"idProjet" form:"idProjet" validate:"required"`
	DateAffectation    time.Time  `json:"dateAffectation" form:"dateAffectation" validate:"required,pastorpresent"`
	DateFinAffectation *time.Time `json:"dateFinAffectation,omitempty" form:"dateFinAffectation"`
}

type Payslip struct {
	ID             int       `json:"id"`
	IDEmployer     int       `json:"idEmployer" form:"idEmployer" validate:"required"`
	Mois           int       `json:"mois" form:"mois" validate:"required,min=1,max=12"`
	Annee          int       `json:"annee" form:"annee" validate:"required,min=2020,max=2100"`
	SalaireBase    float64   `json:"salaireBase" form:"salaireBase" validate:"required,gte=1000,lte=1000000"`
	Primes         float64   `json:"primes" form:"primes" validate:"gte=0,lte=100000"`
	Deductions     float64   `json:"deductions" form:"deductions" validate:"gte=0,lte=100000"`
	NetAPayer      float64   `json:"netAPayer"`
	DateGeneration time.Time `json:"dateGeneration" form:"dateGeneration" validate:"required,pastorpresent"`
}

// Gross is the base salary plus bonuses.
func (p Payslip) Gross() float64 { return p.SalaireBase + p.Primes }

// ComputeNet sets NetAPayer from the other amounts.
func (p *Payslip) ComputeNet() { p.NetAPayer = p.Gross() - p.Deductions }
