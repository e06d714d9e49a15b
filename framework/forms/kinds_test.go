package forms_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/km-arc/go-rh-forms/framework/forms"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

func TestClassify(t *testing.T) {
	kinds := forms.DefaultKinds()
	tests := []struct {
		action string
		want   forms.Kind
	}{
		{"/employees", forms.KindEmployee},
		{"/employees/12/edit", forms.KindEmployee},
		{"/projets/save", forms.KindProject},
		{"/departements", forms.KindDepartment},
		{"/affectations", forms.KindAssignment},
		{"/fiches-paie", forms.KindPayslip},
		{"/login", forms.KindUnclassified},
		{"", forms.KindUnclassified},
	}
	for _, tt := range tests {
		if got := kinds.Classify(tt.action); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.action, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := forms.ParseKind(" Payslip "); err != nil || k != forms.KindPayslip {
		t.Errorf("got %s, %v", k, err)
	}
	if _, err := forms.ParseKind("invoice"); !errors.Is(err, forms.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := forms.ParseKind("unclassified"); !errors.Is(err, forms.ErrUnknownKind) {
		t.Errorf("unclassified is not configurable, got %v", err)
	}
}

func TestDefaultKinds_FieldsAndRoles(t *testing.T) {
	kinds := forms.DefaultKinds()
	if got := kinds.FieldID(forms.KindPayslip, forms.SlotDeductions); got != "deductions" {
		t.Errorf("payslip deductions id: %q", got)
	}
	if got := kinds.FieldID(forms.KindDepartment, forms.SlotBonus); got != "" {
		t.Errorf("unmapped slot should be empty, got %q", got)
	}
	role, ok := kinds.RolesFor(forms.KindProject, "nomProjet")
	if !ok || role != validation.RoleNone {
		t.Errorf("nomProjet role: %v %v", role, ok)
	}
}

func TestLoadKinds_Custom(t *testing.T) {
	src := `
kinds:
  department:
    action: services
    fields:
      title: libelle
    roles:
      code: [identifier]
      libelle: [person_name, none]
`
	kinds, err := forms.LoadKinds(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := kinds.Classify("/services/new"); got != forms.KindDepartment {
		t.Errorf("classify: %s", got)
	}
	if got := kinds.Classify("/employees"); got != forms.KindUnclassified {
		t.Errorf("kinds absent from the file must not classify, got %s", got)
	}
	if r, _ := kinds.RolesFor(forms.KindDepartment, "code"); r != validation.RoleIdentifier {
		t.Errorf("code role: %v", r)
	}
	if r, _ := kinds.RolesFor(forms.KindDepartment, "libelle"); !r.Has(validation.RolePersonName | validation.RoleNone) {
		t.Errorf("libelle role: %v", r)
	}
}

func TestLoadKinds_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown kind", "kinds:\n  invoice:\n    action: x\n", "unknown form kind"},
		{"empty action", "kinds:\n  project:\n    action: ''\n", "empty action"},
		{"unknown slot", "kinds:\n  project:\n    action: p\n    fields:\n      budget: b\n", "unknown slot"},
		{"unknown role", "kinds:\n  project:\n    action: p\n    roles:\n      x: [iban]\n", "unknown role"},
		{"bad yaml", "kinds: [", "decode kinds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := forms.LoadKinds(strings.NewReader(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadKindsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.yaml")
	if err := os.WriteFile(path, []byte("kinds:\n  assignment:\n    action: missions\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	kinds, err := forms.LoadKindsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := kinds.Classify("/missions"); got != forms.KindAssignment {
		t.Errorf("classify: %s", got)
	}
	if _, err := forms.LoadKindsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
