// Package validation evaluates a single form control against the HR
// application's field rules.
//
// # Overview
//
// Evaluate is pure: it takes a Field snapshot and the current time and
// returns a Verdict. Nothing is rendered here; see package feedback for the
// presentation side and package forms for the engine that ties both to a
// document.
//
//	v := validation.Evaluate(validation.Field{
//	    Name:     "email",
//	    Type:     "email",
//	    Required: true,
//	    Value:    "jean.dupont@cy-rh.local",
//	}, time.Now())
//
//	if !v.Valid {
//	    // v.Message is the text shown next to the field
//	}
//
// # Rule order
//
// After trimming the value:
//   - required + empty  → "Ce champ est obligatoire" (selects: "Vous devez faire une sélection")
//   - optional + empty  → valid, nothing else runs
//
// Otherwise every applicable rule runs in this order and the last failing
// one supplies the message:
//   - email       — type=email
//   - phone       — type=tel, French landline or mobile
//   - person name — RolePersonName (name/id contains "nom" or "prenom")
//   - identifier  — RoleIdentifier (name/id contains "matricule")
//   - numeric     — type=number, inclusive min/max attributes
//   - recent date — type=date with RoleRecentDate (embauche, debut, generation, affectation)
//   - salary      — RoleSalary (name/id contains "salaire"), 1000..1000000
//
// # Roles
//
// Roles are normally sniffed from the field name. A Field carrying explicit
// Roles skips the sniffing, which is how the form kind configuration keeps a
// project's "nomProjet" from being checked as a person's name.
package validation
