package validation

import (
	"strings"
	"time"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Role tags a field with the semantic checks that apply to it. Roles combine
// as bit flags because a field may match several name conventions.
type Role uint8

const (
	// RoleAuto resolves roles from the field name or id.
	RoleAuto Role = 0

	RolePersonName Role = 1 << iota
	RoleIdentifier
	RoleRecentDate
	RoleSalary

	// RoleNone is an explicit "no semantic checks" marker.
	RoleNone Role = 1 << 7
)

// Has reports whether r includes every flag in other.
func (r Role) Has(other Role) bool { return other != 0 && r&other == other }

// Field is a snapshot of one form control.
type Field struct {
	Key      string // stable identity: id, else name
	Name     string
	ID       string
	Tag      string // input | select | textarea
	Type     string // lower-cased input type, "select-one", "textarea"
	Required bool
	Min      string // raw min attribute
	Max      string // raw max attribute
	Value    string
	Roles    Role
}

// Label returns the identity used for name-based conventions: name, else id.
func (f Field) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// IsSelect reports whether the control is a dropdown.
func (f Field) IsSelect() bool { return f.Tag == "select" }

// Verdict is the outcome of evaluating one field.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Pass is the valid verdict.
var Pass = Verdict{Valid: true}

// Fail builds an invalid verdict.
func Fail(message string) Verdict { return Verdict{Message: message} }

// ResolveRoles returns the roles that apply to f. Explicit roles win;
// RoleAuto falls back to case-insensitive substring conventions.
func ResolveRoles(f Field) Role {
	if f.Roles != RoleAuto {
		return f.Roles &^ RoleNone
	}
	label := strings.ToLower(f.Label())
	var r Role
	if strings.Contains(label, "nom") || strings.Contains(label, "prenom") {
		r |= RolePersonName
	}
	if strings.Contains(label, "matricule") {
		r |= RoleIdentifier
	}
	for _, hint := range recentDateHints {
		if strings.Contains(label, hint) {
			r |= RoleRecentDate
			break
		}
	}
	if strings.Contains(label, "salaire") {
		r |= RoleSalary
	}
	return r
}

var recentDateHints = []string{"embauche", "debut", "generation", "affectation"}

// ── dates ────────────────────────────────────────────────────────────────────

// DateLayout is the wire format of <input type="date">.
const DateLayout = "2006-01-02"

// Today returns midnight of now's calendar day in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// ParseDate parses a YYYY-MM-DD value as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
