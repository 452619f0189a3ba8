// SPDX-License-Identifier: MPL-2.0

package renameplan

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Plan {
	t.Helper()
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	return p
}

func TestDefault(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)

	if p.Product() != "SecurityRoleManager" {
		t.Errorf("Product() = %q", p.Product())
	}
	if p.Locale() != "1033" {
		t.Errorf("Locale() = %q", p.Locale())
	}
	if p.Source() != DefaultSource {
		t.Errorf("Source() = %q", p.Source())
	}
	if got := len(p.Rules()); got != 17 {
		t.Errorf("len(Rules()) = %d, want 17", got)
	}
	if got := len(p.RulesFor(ScopeElementText)); got != 9 {
		t.Errorf("element-text rules = %d, want 9", got)
	}
	if got := len(p.RulesFor(ScopeAttributeValue)); got != 6 {
		t.Errorf("attribute-value rules = %d, want 6", got)
	}

	paths := p.RulesFor(ScopePathSegment)
	want := []Rule{
		{Target: TargetWebResourcePath, Scope: ScopePathSegment, Old: "WebResources/cc_Cathal.SecurityRoleManager/bundle.js.map", New: "WebResources/ewwp_bundle.js.map"},
		{Target: TargetControlFolder, Scope: ScopePathSegment, Old: "Controls/cn_Cathal.SecurityRoleManager", New: "Controls/SecurityRoleManager"},
	}
	if !slices.Equal(paths, want) {
		t.Errorf("path rules = %+v, want %+v", paths, want)
	}

	managed := p.ForTarget(TargetSolutionManaged)
	if len(managed) != 1 || managed[0].New != UnmanagedLiteral || !managed[0].IsOverwrite() {
		t.Errorf("managed rule = %+v", managed)
	}

	ns := p.ForTarget(TargetControlNamespace)
	if len(ns) != 1 || ns[0].New != "ewwp" {
		t.Errorf("control namespace rule = %+v", ns)
	}
}

func TestDefault_DerivedRegistryFileNames(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)

	tests := []struct {
		old  string
		want string
	}{
		{"/Controls/cn_Cathal.SecurityRoleManager/ControlManifest.xml", "/Controls/SecurityRoleManager/ControlManifest.xml"},
		{"/WebResources/cc_Cathal.SecurityRoleManager/bundle.js.map", "/WebResources/ewwp_bundle.js.map"},
	}
	for _, tt := range tests {
		r, ok := p.Lookup(TargetRegistryFileName, tt.old)
		if !ok {
			t.Errorf("Lookup(%q) found no rule", tt.old)
			continue
		}
		if r.New != tt.want {
			t.Errorf("Lookup(%q).New = %q, want %q", tt.old, r.New, tt.want)
		}
	}
}

func TestLookup_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)

	tests := []struct {
		name    string
		current string
		wantOK  bool
	}{
		{"exact", "cn_Cathal.SecurityRoleManager", true},
		{"superstring", "cn_Cathal.SecurityRoleManager.Extra", false},
		{"substring", "Cathal.SecurityRoleManager", false},
		{"different case", "CN_Cathal.SecurityRoleManager", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := p.Lookup(TargetComponentSchemaName, tt.current)
			if ok != tt.wantOK {
				t.Errorf("Lookup(%q) ok = %v, want %v", tt.current, ok, tt.wantOK)
			}
		})
	}
}

func TestLookup_OverwriteMatchesAnything(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)
	for _, current := range []string{"1", "0", "", "true"} {
		r, ok := p.Lookup(TargetSolutionManaged, current)
		if !ok || r.New != "0" {
			t.Errorf("Lookup(managed, %q) = %+v, %v", current, r, ok)
		}
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)
	rules := p.Rules()
	rules[0].New = "mutated"
	if p.Rules()[0].New == "mutated" {
		t.Error("Rules() exposed the internal slice")
	}
}

func TestResiduals(t *testing.T) {
	t.Parallel()

	p := mustDefault(t)

	if got := p.Residuals(`<UniqueName>SecurityRoleManager</UniqueName>`); len(got) != 0 {
		t.Errorf("Residuals(clean) = %v", got)
	}
	got := p.Residuals("Controls/cn_Cathal.SecurityRoleManager/ControlManifest.xml")
	if !slices.Contains(got, "cn_Cathal.SecurityRoleManager") {
		t.Errorf("Residuals() = %v, want cn_Cathal.SecurityRoleManager", got)
	}
	for i, v := range got {
		if slices.Contains(got[i+1:], v) {
			t.Errorf("Residuals() returned %q twice", v)
		}
	}
}

func validSpec() Spec {
	return Spec{
		Product: "Widget",
		Solution: SolutionSpec{
			UniqueName:  Rename{New: "Widget"},
			DisplayName: Rename{New: "Widget"},
		},
		Components: []Rename{{Old: "old_Widget", New: "new_Widget"}},
	}
}

func TestCompile_Defaults(t *testing.T) {
	t.Parallel()

	p, err := Compile(validSpec(), "test")
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if p.Locale() != DefaultLocale {
		t.Errorf("Locale() = %q, want %q", p.Locale(), DefaultLocale)
	}
	if r, ok := p.Lookup(TargetSolutionManaged, "1"); !ok || r.New != UnmanagedLiteral {
		t.Errorf("managed rule = %+v, %v", r, ok)
	}
	if len(p.ForTarget(TargetControlNamespace)) != 0 {
		t.Error("control namespace rule should only exist with a publisher prefix")
	}
	if len(p.RulesFor(ScopePathSegment)) != 0 {
		t.Error("no path rules expected without paths")
	}
	dn := p.ForTarget(TargetSolutionDisplayName)
	if len(dn) != 1 || dn[0].Locale != DefaultLocale {
		t.Errorf("display name rule = %+v", dn)
	}
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantMsg string
		wantDup bool
	}{
		{
			name:    "empty product",
			mutate:  func(s *Spec) { s.Product = "" },
			wantMsg: "product must not be empty",
		},
		{
			name:    "product with separator",
			mutate:  func(s *Spec) { s.Product = "a/b" },
			wantMsg: "path separators",
		},
		{
			name:    "missing unique name",
			mutate:  func(s *Spec) { s.Solution.UniqueName = Rename{} },
			wantMsg: "solution.unique_name",
		},
		{
			name:    "component without old",
			mutate:  func(s *Spec) { s.Components = append(s.Components, Rename{New: "x"}) },
			wantMsg: "components[1]",
		},
		{
			name:    "identical component rename",
			mutate:  func(s *Spec) { s.Components = []Rename{{Old: "same", New: "same"}} },
			wantMsg: "identical",
		},
		{
			name: "duplicate component",
			mutate: func(s *Spec) {
				s.Components = []Rename{{Old: "dup", New: "a"}, {Old: "dup", New: "b"}}
			},
			wantDup: true,
		},
		{
			name:    "unique name shares a component value",
			mutate:  func(s *Spec) { s.Solution.UniqueName = Rename{Old: "old_Widget", New: "Widget"} },
			wantDup: true,
			wantMsg: `element-text value "old_Widget"`,
		},
		{
			name:    "absolute path",
			mutate:  func(s *Spec) { s.Paths.WebResource = Rename{Old: "/abs/file.js", New: "file.js"} },
			wantMsg: "clean relative slash path",
		},
		{
			name:    "escaping path",
			mutate:  func(s *Spec) { s.Paths.WebResource = Rename{Old: "../file.js", New: "file.js"} },
			wantMsg: "clean relative slash path",
		},
		{
			name:    "nested control folder",
			mutate:  func(s *Spec) { s.Paths.ControlFolder = Rename{Old: "a/b", New: "c"} },
			wantMsg: "single folder name",
		},
		{
			name:    "half specified path",
			mutate:  func(s *Spec) { s.Paths.ControlFolder = Rename{Old: "a"} },
			wantMsg: "old and new must both be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := validSpec()
			tt.mutate(&spec)
			_, err := Compile(spec, "test.cue")
			if err == nil {
				t.Fatal("Compile() succeeded, want error")
			}
			if !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("error should wrap ErrInvalidPlan, got %v", err)
			}
			var planErr *InvalidPlanError
			if !errors.As(err, &planErr) || planErr.Source != "test.cue" {
				t.Errorf("error should be *InvalidPlanError with source, got %T %v", err, err)
			}
			if tt.wantDup && !errors.Is(err, ErrDuplicateRule) {
				t.Errorf("error should wrap ErrDuplicateRule, got %v", err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCompile_ReportsAllProblems(t *testing.T) {
	t.Parallel()

	spec := validSpec()
	spec.Product = ""
	spec.Solution.DisplayName = Rename{}
	_, err := Compile(spec, "")
	var planErr *InvalidPlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("expected *InvalidPlanError, got %v", err)
	}
	if len(planErr.Problems) != 2 {
		t.Errorf("Problems = %v, want 2 entries", planErr.Problems)
	}
	if !strings.Contains(err.Error(), "2 problems") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRuleString(t *testing.T) {
	t.Parallel()

	r := Rule{Target: TargetSolutionDisplayName, Scope: ScopeAttributeValue, New: "Security Role Manager", Locale: "1033"}
	if got := r.String(); !strings.Contains(got, "locale 1033") || !strings.Contains(got, `"*"`) {
		t.Errorf("String() = %q", got)
	}
	r = Rule{Target: TargetComponentSchemaName, Scope: ScopeAttributeValue, Old: "a", New: "b"}
	if got := r.String(); got != `attribute-value component.schema_name: "a" -> "b"` {
		t.Errorf("String() = %q", got)
	}
}
