// SPDX-License-Identifier: MPL-2.0

package renameplan

import "fmt"

// Scope says where a rule's values live.
type Scope string

const (
	// ScopeElementText rules rewrite the text content of an element.
	ScopeElementText Scope = "element-text"
	// ScopeAttributeValue rules rewrite one attribute of an element.
	ScopeAttributeValue Scope = "attribute-value"
	// ScopePathSegment rules move files or folders inside the working tree.
	ScopePathSegment Scope = "path-segment"
)

// Scopes lists every scope in application order.
var Scopes = []Scope{ScopeElementText, ScopeAttributeValue, ScopePathSegment}

// Target names the class of node a rule edits.
type Target string

// Solution manifest targets.
const (
	TargetSolutionUniqueName  Target = "solution.unique_name"
	TargetSolutionDisplayName Target = "solution.display_name"
	TargetSolutionManaged     Target = "solution.managed"

	TargetPublisherUniqueName        Target = "publisher.unique_name"
	TargetPublisherDisplayName       Target = "publisher.display_name"
	TargetPublisherDescription       Target = "publisher.description"
	TargetPublisherPrefix            Target = "publisher.customization_prefix"
	TargetPublisherOptionValuePrefix Target = "publisher.option_value_prefix"

	// TargetComponentSchemaName matches RootComponent schemaName attributes.
	TargetComponentSchemaName Target = "component.schema_name"
)

// Customizations registry and control manifest targets.
const (
	TargetRegistryName     Target = "registry.name"
	TargetRegistryFileName Target = "registry.file_name"
	TargetControlNamespace Target = "control.namespace"
)

// Path targets. Old and New are slash paths relative to the archive root.
const (
	TargetWebResourcePath Target = "path.web_resource"
	TargetControlFolder   Target = "path.control_folder"
)

// Rule is one entry of the plan.
type Rule struct {
	Target Target
	Scope  Scope
	// Old is the exact value to replace; empty for overwrites.
	Old string
	New string
	// Locale restricts localized-label rules to one language code.
	Locale string
}

// IsOverwrite reports whether the rule sets its target unconditionally.
func (r Rule) IsOverwrite() bool { return r.Old == "" }

// Matches reports whether the rule applies to a node holding current.
func (r Rule) Matches(current string) bool {
	return r.IsOverwrite() || current == r.Old
}

// String renders the rule for listings and logs.
func (r Rule) String() string {
	old := r.Old
	if r.IsOverwrite() {
		old = "*"
	}
	if r.Locale != "" {
		return fmt.Sprintf("%s %s (locale %s): %q -> %q", r.Scope, r.Target, r.Locale, old, r.New)
	}
	return fmt.Sprintf("%s %s: %q -> %q", r.Scope, r.Target, old, r.New)
}
