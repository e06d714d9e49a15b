package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Fillable is a model that can be populated from submitted form fields.
type Fillable interface {
	Fill(d *Decoder)
}

// Decoder reads typed values out of a submitted form, recording a message
// for every value that does not parse.
type Decoder struct {
	fields map[string]string
	loc    *time.Location
	msgs   validation.Messages
}

// NewDecoder wraps fields; dates are read in loc.
func NewDecoder(fields map[string]string, loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.Local
	}
	return &Decoder{fields: fields, loc: loc}
}

// Messages returns the parse failures.
func (d *Decoder) Messages() validation.Messages { return d.msgs }

func (d *Decoder) String(key string) string {
	return strings.TrimSpace(d.fields[key])
}

// Float reads a decimal amount; empty is 0.
func (d *Decoder) Float(key, msg string) float64 {
	v := d.String(key)
	if v == "" {
		return 0
	}
	n, ok := validation.ParseNumber(v)
	if !ok {
		d.msgs.Set(key, msg)
	}
	return n
}

// Int reads an integer; empty is 0.
func (d *Decoder) Int(key, msg string) int {
	v := d.String(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		d.msgs.Set(key, msg)
	}
	return n
}

// Date reads a YYYY-MM-DD date; empty is the zero time.
func (d *Decoder) Date(key string) time.Time {
	v := d.String(key)
	if v == "" {
		return time.Time{}
	}
	t, ok := validation.ParseDate(v, d.loc)
	if !ok {
		d.msgs.Set(key, validation.MsgDateFormat)
	}
	return t
}

// OptionalDate is Date with nil for an empty or malformed value.
func (d *Decoder) OptionalDate(key string) *time.Time {
	t := d.Date(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

const msgInvalidRef = "Sélection invalide"

func (e *Employee) Fill(d *Decoder) {
	e.Matricule = d.String("matricule")
	e.Nom = d.String("nom")
	e.Prenom = d.String("prenom")
	e.Email = d.String("email")
	e.Telephone = d.String("telephone")
	e.Poste = d.String("poste")
	e.Grade = d.String("grade")
	e.Role = d.String("role")
	e.SalaireBase = d.Float("salaireBase", validation.MsgSalaryNumber)
	e.DateEmbauche = d.Date("dateEmbauche")
	e.IDDepartement = d.Int("idDepartement", msgInvalidRef)
}

func (p *Project) Fill(d *Decoder) {
	p.NomProjet = d.String("nomProjet")
	p.EtatProjet = d.String("etatProjet")
	if p.EtatProjet == "" {
		p.EtatProjet = "EN_COURS"
	}
	p.DateDebut = d.Date("dateDebut")
	p.DateFinPrevue = d.OptionalDate("dateFinPrevue")
	p.DateFinReelle = d.OptionalDate("dateFinReelle")
	p.IDDepartement = d.Int("idDepartement", msgInvalidRef)
}

func (dep *Department) Fill(d *Decoder) {
	dep.Intitule = d.String("intitule")
	dep.ChefDepartement = d.Int("chefDepartement", msgInvalidRef)
}

func (a *Assignment) Fill(d *Decoder) {
	a.IDEmployer = d.Int("idEmployer", msgInvalidRef)
	a.IDProjet = d.Int("idProjet", msgInvalidRef)
	a.DateAffectation = d.Date("dateAffectation")
	a.DateFinAffectation = d.OptionalDate("dateFinAffectation")
}

func (p *Payslip) Fill(d *Decoder) {
	p.IDEmployer = d.Int("idEmployer", msgInvalidRef)
	p.Mois = d.Int("mois", "Le mois doit être un nombre valide")
	p.Annee = d.Int("annee", "L'année doit être un nombre valide")
	p.SalaireBase = d.Float("salaireBase", validation.MsgSalaryNumber)
	p.Primes = d.Float("primes", "Les primes doivent être un nombre valide")
	p.Deductions = d.Float("deductions", "Les déductions doivent être un nombre valide")
	p.DateGeneration = d.Date("dateGeneration")
	p.ComputeNet()
}
