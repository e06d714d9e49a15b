package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailRX      = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRX      = regexp.MustCompile(`^(?:(?:\+|00)33|0)\s*[1-9](?:[\s.-]*\d{2}){4}$`)
	digitsRX     = regexp.MustCompile(`^\d+$`)
	letterRX     = regexp.MustCompile(`[a-zA-Z\x{C0}-\x{FF}]`)
	nameCharsRX  = regexp.MustCompile(`^[a-zA-Z\x{C0}-\x{FF}\s\-']+$`)
	identifierRX = regexp.MustCompile(`^[A-Z0-9]+$`)
	whitespaceRX = regexp.MustCompile(`\s`)
)

// Salary bounds shared by the generic rule and the form kind rule sets.
const (
	MinSalary = 1000
	MaxSalary = 1000000
)

// rules lists the type and role checks in evaluation order.
var rules = []string{"email", "phone", "person_name", "identifier", "numeric", "recent_date", "salary"}

// Evaluate validates a single field snapshot against the generic rules.
func Evaluate(f Field, now time.Time) Verdict {
	value := strings.TrimSpace(f.Value)

	if value == "" {
		if !f.Required {
			return Pass
		}
		if f.IsSelect() {
			return Fail(MsgSelectionRequired)
		}
		return Fail(MsgRequired)
	}

	roles := ResolveRoles(f)
	verdict := Pass
	for _, rule := range rules {
		if ok, msg := applyRule(f, roles, value, rule, now); !ok {
			verdict = Fail(msg)
		}
	}
	return verdict
}

// applyRule returns true if the rule passes or does not apply.
func applyRule(f Field, roles Role, value, rule string, now time.Time) (bool, string) {
	switch rule {
	case "email":
		if f.Type == "email" && !IsEmail(value) {
			return false, MsgEmail
		}

	case "phone":
		if f.Type == "tel" && !IsPhone(value) {
			return false, MsgPhone
		}

	case "person_name":
		if roles.Has(RolePersonName) {
			return checkPersonName(f, value)
		}

	case "identifier":
		if !roles.Has(RoleIdentifier) {
			break
		}
		ok, msg := true, ""
		if !identifierRX.MatchString(value) {
			ok, msg = false, MsgIdentifierFormat
		}
		if utf8.RuneCountInString(value) < 3 {
			ok, msg = false, MsgIdentifierLength
		}
		return ok, msg

	case "numeric":
		if f.Type != "number" {
			break
		}
		n, ok := ParseNumber(value)
		if !ok {
			return false, MsgNumber
		}
		if min, ok := ParseNumber(f.Min); ok && n < min {
			return false, fmt.Sprintf(MsgNumberMin, FormatNumber(min))
		}
		if max, ok := ParseNumber(f.Max); ok && n > max {
			return false, fmt.Sprintf(MsgNumberMax, FormatNumber(max))
		}

	case "recent_date":
		if f.Type != "date" {
			break
		}
		d, ok := ParseDate(value, now.Location())
		if !ok {
			return false, MsgDateFormat
		}
		if roles.Has(RoleRecentDate) && d.After(Today(now)) {
			return false, MsgDateFuture
		}

	case "salary":
		if !roles.Has(RoleSalary) {
			break
		}
		n, ok := ParseNumber(value)
		if !ok {
			return false, MsgSalaryNumber
		}
		ok, msg := true, ""
		if n < MinSalary {
			ok, msg = false, MsgSalaryMin
		}
		if n > MaxSalary {
			ok, msg = false, MsgSalaryUnrealistic
		}
		return ok, msg
	}

	return true, ""
}

// checkPersonName runs the three independent name checks; the last failure
// supplies the message.
func checkPersonName(f Field, value string) (bool, string) {
	noun := "nom"
	if strings.Contains(strings.ToLower(f.Label()), "prenom") {
		noun = "prénom"
	}
	ok, msg := true, ""
	if digitsRX.MatchString(value) {
		ok, msg = false, fmt.Sprintf(MsgNameDigits, noun)
	}
	if !letterRX.MatchString(value) {
		ok, msg = false, fmt.Sprintf(MsgNameLetter, noun)
	}
	if !nameCharsRX.MatchString(value) {
		ok, msg = false, fmt.Sprintf(MsgNameChars, noun)
	}
	return ok, msg
}

// ── shared predicates ────────────────────────────────────────────────────────

// IsEmail matches local-part@domain.tld with a letters-only TLD of 2+.
func IsEmail(value string) bool { return emailRX.MatchString(value) }

// IsPhone matches a French number once whitespace is stripped.
func IsPhone(value string) bool {
	return phoneRX.MatchString(whitespaceRX.ReplaceAllString(value, ""))
}

// IsIdentifier matches an upper-case alphanumeric matricule.
func IsIdentifier(value string) bool { return identifierRX.MatchString(value) }

// OnlyDigits reports a value made solely of digits.
func OnlyDigits(value string) bool { return digitsRX.MatchString(value) }

// ParseNumber parses a finite decimal number.
func ParseNumber(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// FormatNumber renders n without trailing zeros (1000, 0.5).
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
