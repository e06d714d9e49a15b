package validation_test

import (
	"testing"
	"time"

	"github.com/km-arc/go-rh-forms/framework/validation"
)

var now = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the field evaluates as valid.
func pass(t *testing.T, label string, f validation.Field) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		if v := validation.Evaluate(f, now); !v.Valid {
			t.Errorf("expected PASS, got FAIL: %q", v.Message)
		}
	})
}

// fail asserts the field evaluates as invalid with the given message.
func fail(t *testing.T, label, msg string, f validation.Field) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Evaluate(f, now)
		if v.Valid {
			t.Fatalf("expected FAIL with %q, but field PASSED", msg)
		}
		if v.Message != msg {
			t.Errorf("message: got %q want %q", v.Message, msg)
		}
	})
}

func text(name, value string) validation.Field {
	return validation.Field{Key: name, Name: name, Tag: "input", Type: "text", Value: value}
}

func typed(name, typ, value string) validation.Field {
	f := text(name, value)
	f.Type = typ
	return f
}

// ── required / optional ──────────────────────────────────────────────────────

func TestEvaluate_Required(t *testing.T) {
	req := text("poste", "  ")
	req.Required = true
	fail(t, "whitespace only", validation.MsgRequired, req)

	sel := validation.Field{Key: "grade", Name: "grade", Tag: "select", Type: "select-one", Required: true}
	fail(t, "required select", validation.MsgSelectionRequired, sel)

	sel.Value = "CADRE"
	pass(t, "select with choice", sel)
}

func TestEvaluate_OptionalEmptyShortCircuits(t *testing.T) {
	for _, f := range []validation.Field{
		typed("email", "email", ""),
		typed("telephone", "tel", "   "),
		typed("salaireBase", "number", ""),
		typed("dateEmbauche", "date", ""),
		text("matricule", ""),
		text("nom", ""),
	} {
		pass(t, f.Name, f)
	}
}

// ── email / phone ────────────────────────────────────────────────────────────

func TestEvaluate_Email(t *testing.T) {
	pass(t, "plain", typed("email", "email", "jean.dupont@cy-rh.local"))
	pass(t, "trimmed", typed("email", "email", "  a_b-c@mail.example.fr "))
	fail(t, "no at", validation.MsgEmail, typed("email", "email", "jean.dupont"))
	fail(t, "short tld", validation.MsgEmail, typed("email", "email", "jean@cy-rh.l"))
	fail(t, "numeric tld", validation.MsgEmail, typed("email", "email", "jean@cy-rh.12"))
	fail(t, "no dot", validation.MsgEmail, typed("email", "email", "jean@localhost"))
}

func TestEvaluate_Phone(t *testing.T) {
	pass(t, "mobile", typed("telephone", "tel", "0612345678"))
	pass(t, "spaced", typed("telephone", "tel", "06 12 34 56 78"))
	pass(t, "international", typed("telephone", "tel", "+33612345678"))
	pass(t, "double zero", typed("telephone", "tel", "0033 1 23 45 67 89"))
	pass(t, "dotted", typed("telephone", "tel", "01.23.45.67.89"))
	fail(t, "too short", validation.MsgPhone, typed("telephone", "tel", "061234567"))
	fail(t, "zero after prefix", validation.MsgPhone, typed("telephone", "tel", "0012345678"))
	fail(t, "letters", validation.MsgPhone, typed("telephone", "tel", "06AB345678"))
}

// ── person name ──────────────────────────────────────────────────────────────

func TestEvaluate_PersonName(t *testing.T) {
	pass(t, "accented", text("prenom", "Éloïse"))
	pass(t, "compound", text("nom", "Le Gall-d'Arc"))
	fail(t, "digits only", "Le nom contient des caractères non autorisés", text("nom", "12345"))
	fail(t, "punctuation only", "Le prénom contient des caractères non autorisés", text("prenom", "!!"))
	fail(t, "digit inside", "Le nom contient des caractères non autorisés", text("nom", "Dur4nd"))
}

func TestEvaluate_PersonName_SubstringMatch(t *testing.T) {
	fail(t, "nomProjet sniffed", "Le nom contient des caractères non autorisés", text("nomProjet", "Projet 2024"))

	explicit := text("nomProjet", "Projet 2024")
	explicit.Roles = validation.RoleNone
	pass(t, "explicit role disables sniffing", explicit)
}

// ── identifier ───────────────────────────────────────────────────────────────

func TestEvaluate_Identifier(t *testing.T) {
	pass(t, "upper alnum", text("matricule", "EMP001"))
	fail(t, "lower case", validation.MsgIdentifierFormat, text("matricule", "emp001"))
	fail(t, "too short", validation.MsgIdentifierLength, text("matricule", "E1"))
	fail(t, "short and lower wins length", validation.MsgIdentifierLength, text("matricule", "e1"))
}

// ── numeric ──────────────────────────────────────────────────────────────────

func TestEvaluate_NumericBounds(t *testing.T) {
	bounded := func(value string) validation.Field {
		f := typed("annee", "number", value)
		f.Min, f.Max = "2020", "2100"
		return f
	}
	pass(t, "min boundary", bounded("2020"))
	pass(t, "max boundary", bounded("2100"))
	pass(t, "inside", bounded("2024.5"))
	fail(t, "below", "La valeur doit être supérieure ou égale à 2020", bounded("2019"))
	fail(t, "above", "La valeur doit être inférieure ou égale à 2100", bounded("2101"))
	fail(t, "not a number", validation.MsgNumber, bounded("abc"))
	fail(t, "NaN literal", validation.MsgNumber, bounded("NaN"))

	unbounded := typed("quantite", "number", "-3")
	pass(t, "no bounds declared", unbounded)
}

// ── dates ────────────────────────────────────────────────────────────────────

func TestEvaluate_RecentDate(t *testing.T) {
	pass(t, "today", typed("dateEmbauche", "date", "2026-10-18"))
	pass(t, "past", typed("dateDebut", "date", "2020-01-01"))
	fail(t, "tomorrow", validation.MsgDateFuture, typed("dateAffectation", "date", "2026-10-19"))
	fail(t, "generation future", validation.MsgDateFuture, typed("dateGeneration", "date", "2027-01-01"))
	pass(t, "future allowed for other dates", typed("dateFinPrevue", "date", "2030-01-01"))
	fail(t, "malformed", validation.MsgDateFormat, typed("dateFinPrevue", "date", "31/01/2024"))
}

// ── salary ───────────────────────────────────────────────────────────────────

func TestEvaluate_Salary(t *testing.T) {
	pass(t, "lower bound", typed("salaireBase", "number", "1000"))
	pass(t, "upper bound", typed("salaireBase", "number", "1000000"))
	fail(t, "too low", validation.MsgSalaryMin, typed("salaireBase", "number", "500"))
	fail(t, "too high", validation.MsgSalaryUnrealistic, typed("salaireBase", "number", "1000001"))
	fail(t, "text salary", validation.MsgSalaryNumber, text("salaire", "beaucoup"))
}

func TestEvaluate_LastFailureWins(t *testing.T) {
	f := typed("salaireBase", "number", "500")
	f.Min = "600"
	// numeric fails first, salary runs after and overwrites the message
	fail(t, "salary after numeric", validation.MsgSalaryMin, f)
}

// ── roles ────────────────────────────────────────────────────────────────────

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		label string
		want  validation.Role
	}{
		{"Nom", validation.RolePersonName},
		{"PRENOM", validation.RolePersonName},
		{"matriculeEmploye", validation.RoleIdentifier},
		{"dateEmbauche", validation.RoleRecentDate},
		{"dateGeneration", validation.RoleRecentDate},
		{"salaireBase", validation.RoleSalary},
		{"email", 0},
	}
	for _, tt := range tests {
		got := validation.ResolveRoles(validation.Field{Name: tt.label})
		if got != tt.want {
			t.Errorf("%s: got %b want %b", tt.label, got, tt.want)
		}
	}

	byID := validation.ResolveRoles(validation.Field{ID: "salaireBase"})
	if !byID.Has(validation.RoleSalary) {
		t.Error("id should be used when name is empty")
	}
}
