package forms

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-rh-forms/framework/validation"
)

// ErrUnknownKind is returned for kind names the engine has no rule set for.
var ErrUnknownKind = errors.New("forms: unknown form kind")

// Kind classifies a bound form by its submission target.
type Kind int

const (
	KindUnclassified Kind = iota
	KindEmployee
	KindProject
	KindDepartment
	KindAssignment
	KindPayslip
)

// classificationOrder is the order action fragments are tried in.
var classificationOrder = []Kind{KindEmployee, KindProject, KindDepartment, KindAssignment, KindPayslip}

var kindNames = map[Kind]string{
	KindUnclassified: "unclassified",
	KindEmployee:     "employee",
	KindProject:      "project",
	KindDepartment:   "department",
	KindAssignment:   "assignment",
	KindPayslip:      "payslip",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if k != KindUnclassified && n == strings.ToLower(strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return KindUnclassified, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Slot names a field a kind's rule set addresses directly.
type Slot string

const (
	SlotLastName    Slot = "last_name"
	SlotFirstName   Slot = "first_name"
	SlotEmail       Slot = "email"
	SlotIdentifier  Slot = "identifier"
	SlotHireDate    Slot = "hire_date"
	SlotBaseSalary  Slot = "base_salary"
	SlotGrade       Slot = "grade"
	SlotRole        Slot = "role"
	SlotJobTitle    Slot = "job_title"
	SlotStart       Slot = "start"
	SlotPlannedEnd  Slot = "planned_end"
	SlotActualEnd   Slot = "actual_end"
	SlotTitle       Slot = "title"
	SlotAssignedOn  Slot = "assigned_on"
	SlotEndsOn      Slot = "ends_on"
	SlotEmployee    Slot = "employee"
	SlotMonth       Slot = "month"
	SlotYear        Slot = "year"
	SlotBonus       Slot = "bonus"
	SlotDeductions  Slot = "deductions"
	SlotGeneratedOn Slot = "generated_on"
)

var knownSlots = map[Slot]struct{}{
	SlotLastName: {}, SlotFirstName: {}, SlotEmail: {}, SlotIdentifier: {}, SlotHireDate: {},
	SlotBaseSalary: {}, SlotGrade: {}, SlotRole: {}, SlotJobTitle: {}, SlotStart: {},
	SlotPlannedEnd: {}, SlotActualEnd: {}, SlotTitle: {}, SlotAssignedOn: {}, SlotEndsOn: {},
	SlotEmployee: {}, SlotMonth: {}, SlotYear: {}, SlotBonus: {}, SlotDeductions: {},
	SlotGeneratedOn: {},
}

var roleNames = map[string]validation.Role{
	"none":        validation.RoleNone,
	"person_name": validation.RolePersonName,
	"identifier":  validation.RoleIdentifier,
	"recent_date": validation.RoleRecentDate,
	"salary":      validation.RoleSalary,
}

// KindSpec is the resolved configuration of one kind.
type KindSpec struct {
	Action string
	Fields map[Slot]string
	Roles  map[string]validation.Role
}

// Kinds is the kind configuration shared by every engine.
type Kinds struct {
	specs map[Kind]KindSpec
}

type kindsFile struct {
	Kinds map[string]struct {
		Action string              `yaml:"action"`
		Fields map[string]string   `yaml:"fields"`
		Roles  map[string][]string `yaml:"roles"`
	} `yaml:"kinds"`
}

//go:embed kinds.yaml
var defaultKindsYAML []byte

var defaultKinds = mustLoadDefault()

func mustLoadDefault() *Kinds {
	k, err := LoadKinds(bytes.NewReader(defaultKindsYAML))
	if err != nil {
		panic(fmt.Sprintf("forms: embedded kinds.yaml: %v", err))
	}
	return k
}

// DefaultKinds returns the embedded configuration.
func DefaultKinds() *Kinds { return defaultKinds }

// LoadKindsFile reads a kind configuration from disk.
func LoadKindsFile(path string) (*Kinds, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("forms: open kinds: %w", err)
	}
	defer f.Close()
	return LoadKinds(f)
}

// LoadKinds decodes and checks a YAML kind configuration.
func LoadKinds(r io.Reader) (*Kinds, error) {
	var raw kindsFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("forms: decode kinds: %w", err)
	}

	out := &Kinds{specs: make(map[Kind]KindSpec, len(raw.Kinds))}
	for name, entry := range raw.Kinds {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(entry.Action) == "" {
			return nil, fmt.Errorf("forms: kind %s: empty action", name)
		}
		spec := KindSpec{
			Action: entry.Action,
			Fields: make(map[Slot]string, len(entry.Fields)),
			Roles:  make(map[string]validation.Role, len(entry.Roles)),
		}
		for slot, id := range entry.Fields {
			if _, ok := knownSlots[Slot(slot)]; !ok {
				return nil, fmt.Errorf("forms: kind %s: unknown slot %q", name, slot)
			}
			spec.Fields[Slot(slot)] = id
		}
		for key, names := range entry.Roles {
			var role validation.Role
			for _, n := range names {
				r, ok := roleNames[n]
				if !ok {
					return nil, fmt.Errorf("forms: kind %s: field %s: unknown role %q", name, key, n)
				}
				role |= r
			}
			spec.Roles[key] = role
		}
		out.specs[kind] = spec
	}
	return out, nil
}

// Classify selects a kind from a form action URL.
func (k *Kinds) Classify(action string) Kind {
	for _, kind := range classificationOrder {
		spec, ok := k.specs[kind]
		if ok && strings.Contains(action, spec.Action) {
			return kind
		}
	}
	return KindUnclassified
}

// Spec returns the configuration of kind.
func (k *Kinds) Spec(kind Kind) (KindSpec, bool) {
	spec, ok := k.specs[kind]
	return spec, ok
}

// FieldID returns the element id bound to slot for kind, "" when unmapped.
func (k *Kinds) FieldID(kind Kind, slot Slot) string {
	return k.specs[kind].Fields[slot]
}

// RolesFor returns the explicit roles configured for a field key.
func (k *Kinds) RolesFor(kind Kind, key string) (validation.Role, bool) {
	r, ok := k.specs[kind].Roles[key]
	return r, ok
}
