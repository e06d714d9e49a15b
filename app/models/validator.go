package models

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/km-arc/go-rh-forms/framework/validation"
)

var personNameRX = regexp.MustCompile(`^[\p{L} .'-]+$`)

// messages maps "field.tag" to the message shown to the user; fieldless
// entries are the per-tag fallbacks.
var messages = map[string]string{
	"matricule.required":    "Le matricule est obligatoire",
	"matricule.min":         "Le matricule doit contenir entre 3 et 30 caractères",
	"matricule.max":         "Le matricule doit contenir entre 3 et 30 caractères",
	"matricule.matricule":   "Le matricule ne doit contenir que des lettres majuscules et chiffres",
	"nom.required":          "Le nom de l'employé est obligatoire",
	"nom.personname":        "Le nom ne doit contenir que des lettres",
	"nom.min":               "Le nom doit contenir entre 2 et 50 caractères",
	"nom.max":               "Le nom doit contenir entre 2 et 50 caractères",
	"prenom.required":       "Le prénom de l'employé est obligatoire",
	"prenom.personname":     "Le prénom ne doit contenir que des lettres",
	"prenom.min":            "Le prénom doit contenir entre 2 et 50 caractères",
	"prenom.max":            "Le prénom doit contenir entre 2 et 50 caractères",
	"email.required":        "L'email est obligatoire",
	"email.email":           "L'email doit être valide",
	"email.max":             "L'email ne doit pas dépasser 100 caractères",
	"telephone.phonefr":     validation.MsgPhone,
	"poste.required":        "Le poste est obligatoire",
	"poste.min":             "Le poste doit contenir entre 3 et 100 caractères",
	"poste.max":             "Le poste doit contenir entre 3 et 100 caractères",
	"grade.required":        "Le grade est obligatoire",
	"grade.oneof":           "Grade inconnu",
	"role.required":         "Le rôle est obligatoire",
	"role.oneof":            "Rôle inconnu",
	"salaireBase.required":  "Le salaire de base est obligatoire",
	"salaireBase.gte":       "Le salaire de base doit être au minimum 1000€",
	"salaireBase.lte":       "Le salaire de base ne peut pas dépasser 1 000 000€",
	"dateEmbauche.required": "La date d'embauche est obligatoire",

	"dateEmbauche.pastorpresent": "La date d'embauche ne peut pas être dans le futur",

	"nomProjet.required":   "Le nom du projet est obligatoire",
	"nomProjet.min":        "Le nom doit contenir entre 3 et 150 caractères",
	"nomProjet.max":        "Le nom doit contenir entre 3 et 150 caractères",
	"etatProjet.required":  "L'état du projet est obligatoire",
	"etatProjet.oneof":     "État de projet inconnu",
	"dateDebut.required":   "La date de début est obligatoire",
	"dateFinPrevue.after":  "La date de fin prévue doit être après la date de début",
	"dateFinReelle.after":  "La date de fin réelle doit être après la date de début",

	"intitule.required": "L'intitulé est obligatoire",
	"intitule.min":      "L'intitulé doit contenir entre 3 et 100 caractères",
	"intitule.max":      "L'intitulé doit contenir entre 3 et 100 caractères",

	"idEmployer.required":           "L'employé est obligatoire",
	"idProjet.required":             "Le projet est obligatoire",
	"dateAffectation.required":      "La date d'affectation est obligatoire",
	"dateAffectation.pastorpresent": "La date d'affectation ne peut pas être dans le futur",
	"dateFinAffectation.after":      "La date de fin doit être après la date d'affectation",

	"mois.required":                "Le mois est obligatoire",
	"mois.min":                     "Le mois doit être entre 1 et 12",
	"mois.max":                     "Le mois doit être entre 1 et 12",
	"annee.required":               "L'année est obligatoire",
	"annee.min":                    "L'année doit être au minimum 2020",
	"annee.max":                    "L'année est trop élevée",
	"primes.gte":                   "Les primes doivent être positives",
	"primes.lte":                   "Les primes ne peuvent pas dépasser 100 000€",
	"deductions.gte":               "Les déductions doivent être positives",
	"deductions.lte":               "Les déductions ne peuvent pas dépasser 100 000€",
	"deductions.withingross":       "Les déductions ne peuvent pas dépasser le salaire total",
	"mois.notfuture":               "Impossible de créer une fiche de paie pour un mois futur",
	"dateGeneration.required":      "La date de génération est obligatoire",
	"dateGeneration.pastorpresent": "La date de génération ne peut pas être dans le futur",

	"required":      validation.MsgRequired,
	"pastorpresent": validation.MsgDateFuture,
}

// Validator runs the struct-tag validation of the models. Date rules use
// the injected clock.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator builds a Validator; now decides what "today" is.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	mv := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	mv.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(mv.v, "matricule", func(fl validator.FieldLevel) bool {
		return validation.IsIdentifier(fl.Field().String())
	})
	mustRegister(mv.v, "personname", func(fl validator.FieldLevel) bool {
		return personNameRX.MatchString(fl.Field().String())
	})
	mustRegister(mv.v, "phonefr", func(fl validator.FieldLevel) bool {
		return validation.IsPhone(fl.Field().String())
	})
	mustRegister(mv.v, "pastorpresent", mv.pastOrPresent)

	mv.v.RegisterStructValidation(mv.projectDates, Project{})
	mv.v.RegisterStructValidation(mv.assignmentDates, Assignment{})
	mv.v.RegisterStructValidation(mv.payslipAmounts, Payslip{})
	return mv
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates a model and returns one message per invalid field.
func (mv *Validator) Struct(model any) validation.Messages {
	var msgs validation.Messages
	err := mv.v.Struct(model)
	if err == nil {
		return msgs
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		msgs.Set("_", err.Error())
		return msgs
	}
	for _, fe := range errs {
		if msgs.Get(fe.Field()) == "" {
			msgs.Set(fe.Field(), translate(fe))
		}
	}
	return msgs
}

// Bind decodes form fields into model and validates it. Parse failures take
// precedence over the tag errors of the same field.
func (mv *Validator) Bind(fields map[string]string, model Fillable) validation.Messages {
	d := NewDecoder(fields, mv.now().Location())
	model.Fill(d)
	msgs := d.Messages()
	for key, msg := range mv.Struct(model).Bag {
		if msgs.Get(key) == "" {
			msgs.Set(key, msg)
		}
	}
	return msgs
}

func translate(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	return "Valeur invalide"
}

// ── custom rules ─────────────────────────────────────────────────────────────

func (mv *Validator) today() time.Time { return validation.Today(mv.now()) }

func (mv *Validator) pastOrPresent(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok || t.IsZero() {
		return true
	}
	return !calendarDate(t).After(mv.today())
}

func (mv *Validator) projectDates(sl validator.StructLevel) {
	p := sl.Current().Interface().(Project)
	if p.DateDebut.IsZero() {
		return
	}
	if p.DateFinPrevue != nil && !p.DateFinPrevue.After(p.DateDebut) {
		sl.ReportError(p.DateFinPrevue, "dateFinPrevue", "DateFinPrevue", "after", "dateDebut")
	}
	if p.DateFinReelle != nil && !p.DateFinReelle.After(p.DateDebut) {
		sl.ReportError(p.DateFinReelle, "dateFinReelle", "DateFinReelle", "after", "dateDebut")
	}
}

func (mv *Validator) assignmentDates(sl validator.StructLevel) {
	a := sl.Current().Interface().(Assignment)
	if a.DateAffectation.IsZero() || a.DateFinAffectation == nil {
		return
	}
	if !a.DateFinAffectation.After(a.DateAffectation) {
		sl.ReportError(a.DateFinAffectation, "dateFinAffectation", "DateFinAffectation", "after", "dateAffectation")
	}
}

func (mv *Validator) payslipAmounts(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payslip)
	if p.Deductions > p.Gross() {
		sl.ReportError(p.Deductions, "deductions", "Deductions", "withingross", "")
	}
	if p.Mois == 0 || p.Annee == 0 {
		return
	}
	today := mv.today()
	if p.Annee > today.Year() || (p.Annee == today.Year() && p.Mois > int(today.Month())) {
		sl.ReportError(p.Mois, "mois", "Mois", "notfuture", "")
	}
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
