// SPDX-License-Identifier: MPL-2.0

package renameplan

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Plan is the compiled, ordered and immutable rule table.
type Plan struct {
	source  string
	product string
	locale  string
	rules   []Rule
}

// Compile validates spec and expands it into a Plan. Every problem is
// reported at once in an *InvalidPlanError.
func Compile(spec Spec, source string) (*Plan, error) {
	spec.applyDefaults()

	c := &compiler{locale: spec.Locale}
	c.check(spec.Product != "", "product must not be empty")
	c.check(!strings.ContainsAny(spec.Product, `/\`), "product %q must not contain path separators", spec.Product)

	sol := spec.Solution
	c.identity(TargetSolutionUniqueName, ScopeElementText, sol.UniqueName, false)
	c.identity(TargetSolutionDisplayName, ScopeAttributeValue, sol.DisplayName, true)
	c.check(sol.Managed != "", "solution.managed must not be empty")
	c.add(Rule{Target: TargetSolutionManaged, Scope: ScopeElementText, New: sol.Managed})

	if pub := spec.Publisher; pub != nil {
		c.identity(TargetPublisherUniqueName, ScopeElementText, pub.UniqueName, false)
		c.identity(TargetPublisherDisplayName, ScopeAttributeValue, pub.DisplayName, true)
		c.identity(TargetPublisherDescription, ScopeAttributeValue, pub.Description, true)
		c.identity(TargetPublisherPrefix, ScopeElementText, pub.CustomizationPrefix, false)
		c.identity(TargetPublisherOptionValuePrefix, ScopeElementText, pub.OptionValuePrefix, false)
	}

	for i, comp := range spec.Components {
		if !c.check(comp.Old != "" && comp.New != "", "components[%d]: old and new must both be set", i) {
			continue
		}
		c.check(comp.Old != comp.New, "components[%d]: old and new are identical (%q)", i, comp.Old)
		c.add(Rule{Target: TargetComponentSchemaName, Scope: ScopeAttributeValue, Old: comp.Old, New: comp.New})
	}
	for _, comp := range spec.Components {
		if comp.Old != "" && comp.New != "" {
			c.add(Rule{Target: TargetRegistryName, Scope: ScopeElementText, Old: comp.Old, New: comp.New})
		}
	}

	// Registry file names are derived from the moves so the registry and
	// the tree cannot disagree.
	control, hasControl := c.pathRule(TargetControlFolder, "paths.control_folder", ControlsDir, spec.Paths.ControlFolder, true)
	web, hasWeb := c.pathRule(TargetWebResourcePath, "paths.web_resource", WebResourcesDir, spec.Paths.WebResource, false)
	if hasControl {
		c.add(Rule{
			Target: TargetRegistryFileName,
			Scope:  ScopeElementText,
			Old:    "/" + control.Old + "/" + ControlManifestName,
			New:    "/" + control.New + "/" + ControlManifestName,
		})
	}
	if hasWeb {
		c.add(Rule{Target: TargetRegistryFileName, Scope: ScopeElementText, Old: "/" + web.Old, New: "/" + web.New})
	}

	if spec.Publisher != nil && spec.Publisher.CustomizationPrefix.New != "" {
		c.add(Rule{Target: TargetControlNamespace, Scope: ScopeAttributeValue, New: spec.Publisher.CustomizationPrefix.New})
	}

	if hasWeb {
		c.add(web)
	}
	if hasControl {
		c.add(control)
	}

	c.checkDuplicates()
	if len(c.problems) > 0 {
		return nil, &InvalidPlanError{Source: source, Problems: c.problems}
	}

	return &Plan{
		source:  source,
		product: spec.Product,
		locale:  spec.Locale,
		rules:   c.rules,
	}, nil
}

// Source names where the plan was loaded from.
func (p *Plan) Source() string { return p.source }

// Product returns the archive name prefix.
func (p *Plan) Product() string { return p.product }

// Locale returns the language code of the rewritten labels.
func (p *Plan) Locale() string { return p.locale }

// Rules returns every rule in application order.
func (p *Plan) Rules() []Rule { return slices.Clone(p.rules) }

// RulesFor returns the ordered subset of rules in scope.
func (p *Plan) RulesFor(scope Scope) []Rule {
	var out []Rule
	for _, r := range p.rules {
		if r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

// ForTarget returns the ordered rules for one node class.
func (p *Plan) ForTarget(target Target) []Rule {
	var out []Rule
	for _, r := range p.rules {
		if r.Target == target {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the first rule for target that applies to a node currently
// holding current. Matching is exact.
func (p *Plan) Lookup(target Target, current string) (Rule, bool) {
	for _, r := range p.rules {
		if r.Target == target && r.Matches(current) {
			return r, true
		}
	}
	return Rule{}, false
}

// Substitutions returns the rules that carry an old value.
func (p *Plan) Substitutions() []Rule {
	var out []Rule
	for _, r := range p.rules {
		if !r.IsOverwrite() {
			out = append(out, r)
		}
	}
	return out
}

// Residuals returns the distinct substitution old values that occur in s.
// A repackaged archive should have none in any entry path or content.
func (p *Plan) Residuals(s string) []string {
	var found []string
	for _, r := range p.rules {
		if r.IsOverwrite() || slices.Contains(found, r.Old) {
			continue
		}
		if strings.Contains(s, r.Old) {
			found = append(found, r.Old)
		}
	}
	return found
}

type compiler struct {
	locale   string
	rules    []Rule
	problems []error
}

func (c *compiler) check(ok bool, format string, args ...any) bool {
	if !ok {
		c.problems = append(c.problems, fmt.Errorf(format, args...))
	}
	return ok
}

func (c *compiler) add(r Rule) { c.rules = append(c.rules, r) }

func (c *compiler) identity(target Target, scope Scope, r Rename, localized bool) {
	if !c.check(r.New != "", "%s: new value must not be empty", target) {
		return
	}
	rule := Rule{Target: target, Scope: scope, Old: r.Old, New: r.New}
	if localized {
		rule.Locale = c.locale
	}
	c.add(rule)
}

// pathRule validates a move below root and returns it as a path-segment rule
// with root-relative slash paths.
func (c *compiler) pathRule(target Target, field, root string, r Rename, singleSegment bool) (Rule, bool) {
	if r.IsZero() {
		return Rule{}, false
	}
	ok := c.check(r.Old != "" && r.New != "", "%s: old and new must both be set", field)
	for _, v := range []string{r.Old, r.New} {
		if v == "" {
			continue
		}
		ok = c.check(isRelativeSlashPath(v), "%s: %q must be a clean relative slash path", field, v) && ok
		if singleSegment {
			ok = c.check(!strings.Contains(v, "/"), "%s: %q must be a single folder name", field, v) && ok
		}
	}
	ok = c.check(r.Old != r.New, "%s: old and new are identical (%q)", field, r.Old) && ok
	if !ok {
		return Rule{}, false
	}
	return Rule{Target: target, Scope: ScopePathSegment, Old: root + "/" + r.Old, New: root + "/" + r.New}, true
}

func (c *compiler) checkDuplicates() {
	type key struct {
		scope Scope
		old   string
	}
	seen := make(map[key]Target)
	for _, r := range c.rules {
		if r.IsOverwrite() {
			continue
		}
		k := key{r.Scope, r.Old}
		if first, dup := seen[k]; dup {
			c.problems = append(c.problems, fmt.Errorf("%w: %s value %q used by %s and %s", ErrDuplicateRule, r.Scope, r.Old, first, r.Target))
			continue
		}
		seen[k] = r.Target
	}
}

func isRelativeSlashPath(p string) bool {
	if strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return false
	}
	if path.Clean(p) != p {
		return false
	}
	return p != "." && p != ".." && !strings.HasPrefix(p, "../")
}
