package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// check is one named-field rule of a kind. It reports failures through the
// context and returns false if any were found.
type check func(c *ruleContext) bool

// ruleSets is resolved once per validation pass by the form's Kind.
var ruleSets = map[Kind][]check{
	KindEmployee: {
		employeeNames, employeeEmail, employeeIdentifier, employeeHireDate,
		employeeSalary, employeeSelections, employeeJobTitle,
	},
	KindProject:    {projectStart, projectPlannedEnd, projectActualEnd},
	KindDepartment: {departmentTitle},
	KindAssignment: {assignmentDate, assignmentEnd},
	KindPayslip: {
		payslipEmployee, payslipMonth, payslipYear, payslipPeriod, payslipSalary,
		payslipBonus, payslipDeductions, payslipGeneratedOn,
	},
}

// projectFloor is the earliest plausible project start.
var projectFloor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	minPayslipYear = 2020
	maxBonus       = 100000
	hireMaxYears   = 70
	payslipMaxAge  = 5
)

type ruleContext struct {
	engine *Engine
	kind   Kind
	now    time.Time
	today  time.Time
}

// field returns the element bound to slot, nil when unmapped or absent.
func (c *ruleContext) field(slot Slot) *dom.Element {
	id := c.engine.kinds.FieldID(c.kind, slot)
	if id == "" {
		return nil
	}
	return c.engine.form.Find(func(e *dom.Element) bool { return e.ID() == id })
}

// value returns the trimmed value of slot and its element.
func (c *ruleContext) value(slot Slot) (string, *dom.Element) {
	el := c.field(slot)
	if el == nil {
		return "", nil
	}
	return strings.TrimSpace(el.Value()), el
}

func (c *ruleContext) fail(el *dom.Element, msg string) bool {
	c.engine.annotate(el, validation.Fail(msg))
	return false
}

func (c *ruleContext) date(value string) (time.Time, bool) {
	return validation.ParseDate(value, c.now.Location())
}

func (c *ruleContext) startFloor() time.Time {
	return time.Date(projectFloor.Year(), projectFloor.Month(), projectFloor.Day(), 0, 0, 0, 0, c.now.Location())
}

// ── employee ─────────────────────────────────────────────────────────────────

func employeeNames(c *ruleContext) bool {
	ok := true
	if v, el := c.value(SlotLastName); v != "" && validation.OnlyDigits(v) {
		ok = c.fail(el, "Le nom ne peut pas contenir uniquement des chiffres")
	}
	if v, el := c.value(SlotFirstName); v != "" && validation.OnlyDigits(v) {
		ok = c.fail(el, "Le prénom ne peut pas contenir uniquement des chiffres")
	}
	return ok
}

func employeeEmail(c *ruleContext) bool {
	if v, el := c.value(SlotEmail); v != "" && !validation.IsEmail(v) {
		return c.fail(el, validation.MsgEmail)
	}
	return true
}

func employeeIdentifier(c *ruleContext) bool {
	if v, el := c.value(SlotIdentifier); v != "" && !validation.IsIdentifier(v) {
		return c.fail(el, "Le matricule doit contenir uniquement des lettres majuscules et des chiffres")
	}
	return true
}

func employeeHireDate(c *ruleContext) bool {
	v, el := c.value(SlotHireDate)
	if v == "" {
		return true
	}
	hired, parsed := c.date(v)
	if !parsed {
		return c.fail(el, validation.MsgDateFormat)
	}
	ok := true
	if hired.After(c.today) {
		ok = c.fail(el, "La date d'embauche ne peut pas être dans le futur")
	}
	if hired.Before(c.today.AddDate(-hireMaxYears, 0, 0)) {
		ok = c.fail(el, "La date d'embauche semble trop ancienne (plus de 70 ans)")
	}
	return ok
}

func employeeSalary(c *ruleContext) bool {
	v, el := c.value(SlotBaseSalary)
	if v == "" {
		return true
	}
	salary, ok := validation.ParseNumber(v)
	switch {
	case !ok:
		return c.fail(el, validation.MsgSalaryNumber)
	case salary < validation.MinSalary:
		return c.fail(el, "Le salaire de base doit être d'au moins 1000€")
	case salary > validation.MaxSalary:
		return c.fail(el, "Le salaire ne peut pas dépasser 1 000 000€")
	}
	return true
}

func employeeSelections(c *ruleContext) bool {
	ok := true
	if v, el := c.value(SlotGrade); el != nil && v == "" {
		ok = c.fail(el, "Vous devez sélectionner un grade")
	}
	if v, el := c.value(SlotRole); el != nil && v == "" {
		ok = c.fail(el, "Vous devez sélectionner un rôle")
	}
	return ok
}

func employeeJobTitle(c *ruleContext) bool {
	if v, el := c.value(SlotJobTitle); v != "" && utf8.RuneCountInString(v) < 3 {
		return c.fail(el, "Le poste doit contenir au moins 3 caractères")
	}
	return true
}

// ── project ──────────────────────────────────────────────────────────────────

func projectStart(c *ruleContext) bool {
	v, el := c.value(SlotStart)
	if v == "" {
		return true
	}
	start, ok := c.date(v)
	if !ok {
		return c.fail(el, validation.MsgDateFormat)
	}
	if start.Before(c.startFloor()) {
		return c.fail(el, "La date de début semble incorrecte")
	}
	return true
}

func projectPlannedEnd(c *ruleContext) bool {
	return endsAfter(c, SlotStart, SlotPlannedEnd, "La date de fin prévue doit être après la date de début")
}

func projectActualEnd(c *ruleContext) bool {
	return endsAfter(c, SlotStart, SlotActualEnd, "La date de fin réelle doit être après la date de début")
}

// endsAfter flags the end slot unless it is strictly after the start slot.
// Either value missing or unparseable skips the comparison.
func endsAfter(c *ruleContext, startSlot, endSlot Slot, msg string) bool {
	sv, _ := c.value(startSlot)
	ev, el := c.value(endSlot)
	if sv == "" || ev == "" {
		return true
	}
	start, ok1 := c.date(sv)
	end, ok2 := c.date(ev)
	if ok1 && ok2 && !end.After(start) {
		return c.fail(el, msg)
	}
	return true
}

// ── department ───────────────────────────────────────────────────────────────

func departmentTitle(c *ruleContext) bool {
	if v, el := c.value(SlotTitle); v != "" && utf8.RuneCountInString(v) < 3 {
		return c.fail(el, "L'intitulé doit contenir au moins 3 caractères")
	}
	return true
}

// ── assignment ───────────────────────────────────────────────────────────────

func assignmentDate(c *ruleContext) bool {
	v, el := c.value(SlotAssignedOn)
	if v == "" {
		return true
	}
	d, ok := c.date(v)
	if !ok {
		return c.fail(el, validation.MsgDateFormat)
	}
	if d.After(c.today) {
		return c.fail(el, "La date d'affectation ne peut pas être dans le futur")
	}
	return true
}

func assignmentEnd(c *ruleContext) bool {
	return endsAfter(c, SlotAssignedOn, SlotEndsOn, "La date de fin doit être après la date d'affectation")
}

// ── payslip ──────────────────────────────────────────────────────────────────

func payslipEmployee(c *ruleContext) bool {
	if v, el := c.value(SlotEmployee); el != nil && v == "" {
		return c.fail(el, "Vous devez sélectionner un employé")
	}
	return true
}

func payslipMonth(c *ruleContext) bool {
	if v, el := c.value(SlotMonth); el != nil && v == "" {
		return c.fail(el, "Le mois est obligatoire")
	}
	return true
}

func payslipYear(c *ruleContext) bool {
	v, el := c.value(SlotYear)
	if el == nil {
		return true
	}
	if v == "" {
		return c.fail(el, "L'année est obligatoire")
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return c.fail(el, "L'année doit être un nombre valide")
	}
	if year < minPayslipYear {
		return c.fail(el, "L'année doit être supérieure ou égale à 2020")
	}
	return true
}

// payslipPeriod rejects a (month, year) after the current month.
func payslipPeriod(c *ruleContext) bool {
	month, year, el, ok := c.period()
	if !ok {
		return true
	}
	if year > c.now.Year() || (year == c.now.Year() && month > int(c.now.Month())) {
		return c.fail(el, "Impossible de créer une fiche de paie pour un mois futur")
	}
	return true
}

// period parses the payslip month and year; el is the month element.
func (c *ruleContext) period() (month, year int, el *dom.Element, ok bool) {
	mv, mel := c.value(SlotMonth)
	yv, _ := c.value(SlotYear)
	if mv == "" || yv == "" {
		return 0, 0, nil, false
	}
	m, err1 := strconv.Atoi(mv)
	y, err2 := strconv.Atoi(yv)
	if err1 != nil || err2 != nil {
		return 0, 0, nil, false
	}
	return m, y, mel, true
}

func payslipSalary(c *ruleContext) bool {
	v, el := c.value(SlotBaseSalary)
	if el == nil {
		return true
	}
	if v == "" {
		return c.fail(el, "Le salaire de base est obligatoire")
	}
	salary, ok := validation.ParseNumber(v)
	switch {
	case !ok:
		return c.fail(el, validation.MsgSalaryNumber)
	case salary < validation.MinSalary:
		return c.fail(el, "Le salaire de base doit être d'au moins 1000€")
	case salary > validation.MaxSalary:
		return c.fail(el, "Le salaire de base ne peut pas dépasser 1 000 000€")
	}
	return true
}

func payslipBonus(c *ruleContext) bool {
	v, el := c.value(SlotBonus)
	if v == "" {
		return true
	}
	bonus, ok := validation.ParseNumber(v)
	switch {
	case !ok:
		return c.fail(el, "Les primes doivent être un nombre valide")
	case bonus < 0:
		return c.fail(el, "Les primes ne peuvent pas être négatives")
	case bonus > maxBonus:
		return c.fail(el, "Le montant des primes semble irréaliste (max 100 000€)")
	}
	return true
}

// payslipDeductions caps deductions at base salary plus bonus.
func payslipDeductions(c *ruleContext) bool {
	v, el := c.value(SlotDeductions)
	if v == "" {
		return true
	}
	deductions, ok := validation.ParseNumber(v)
	switch {
	case !ok:
		return c.fail(el, "Les déductions doivent être un nombre valide")
	case deductions < 0:
		return c.fail(el, "Les déductions ne peuvent pas être négatives")
	}

	sv, _ := c.value(SlotBaseSalary)
	if sv == "" {
		return true
	}
	salary, _ := validation.ParseNumber(sv)
	var bonus float64
	if bv, _ := c.value(SlotBonus); bv != "" {
		if bonus, ok = validation.ParseNumber(bv); !ok {
			return true
		}
	}
	if total := salary + bonus; deductions > total {
		return c.fail(el, fmt.Sprintf(
			"Les déductions (%.2f€) ne peuvent pas dépasser le salaire total (%.2f€)", deductions, total))
	}
	return true
}

func payslipGeneratedOn(c *ruleContext) bool {
	v, el := c.value(SlotGeneratedOn)
	if el == nil {
		return true
	}
	if v == "" {
		return c.fail(el, "La date de génération est obligatoire")
	}
	generated, parsed := c.date(v)
	if !parsed {
		return c.fail(el, validation.MsgDateFormat)
	}

	ok := true
	if generated.After(c.today) {
		ok = c.fail(el, "La date de génération ne peut pas être dans le futur")
	}
	if month, year, _, has := c.period(); has {
		gy, gm := generated.Year(), int(generated.Month())
		if gy < year || (gy == year && gm < month) {
			ok = c.fail(el, "La date de génération ne peut pas être avant le mois de la fiche de paie")
		}
	}
	if generated.Before(c.today.AddDate(-payslipMaxAge, 0, 0)) {
		ok = c.fail(el, "La date de génération semble trop ancienne (plus de 5 ans)")
	}
	return ok
}
