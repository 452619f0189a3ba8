// SPDX-License-Identifier: MPL-2.0

package renameplan

type (
	// Spec is the declarative form of a plan as written in a plan file.
	// Compile turns it into an ordered rule table.
	Spec struct {
		// Product is the archive name prefix: <Product>_<version>_managed.zip.
		Product string `json:"product" yaml:"product" toml:"product"`
		// Locale is the language code whose labels are rewritten.
		Locale    string         `json:"locale" yaml:"locale" toml:"locale"`
		Solution  SolutionSpec   `json:"solution" yaml:"solution" toml:"solution"`
		Publisher *PublisherSpec `json:"publisher,omitempty" yaml:"publisher,omitempty" toml:"publisher,omitempty"`
		// Components rename schema names in the solution manifest and
		// registration names in the customizations registry.
		Components []Rename  `json:"components" yaml:"components" toml:"components"`
		Paths      PathsSpec `json:"paths" yaml:"paths" toml:"paths"`
	}

	// Rename is one old -> new pair. An empty Old means "overwrite".
	Rename struct {
		Old string `json:"old,omitempty" yaml:"old,omitempty" toml:"old,omitempty"`
		New string `json:"new" yaml:"new" toml:"new"`
	}

	// SolutionSpec holds the solution identity edits.
	SolutionSpec struct {
		UniqueName  Rename `json:"unique_name" yaml:"unique_name" toml:"unique_name"`
		DisplayName Rename `json:"display_name" yaml:"display_name" toml:"display_name"`
		// Managed is the literal written to the Managed element.
		Managed string `json:"managed" yaml:"managed" toml:"managed"`
	}

	// PublisherSpec holds the publisher identity edits.
	PublisherSpec struct {
		UniqueName          Rename `json:"unique_name" yaml:"unique_name" toml:"unique_name"`
		DisplayName         Rename `json:"display_name" yaml:"display_name" toml:"display_name"`
		Description         Rename `json:"description" yaml:"description" toml:"description"`
		CustomizationPrefix Rename `json:"customization_prefix" yaml:"customization_prefix" toml:"customization_prefix"`
		OptionValuePrefix   Rename `json:"option_value_prefix" yaml:"option_value_prefix" toml:"option_value_prefix"`
	}

	// PathsSpec holds the filesystem moves. ControlFolder is relative to
	// Controls/, WebResource relative to WebResources/.
	PathsSpec struct {
		ControlFolder Rename `json:"control_folder,omitempty" yaml:"control_folder,omitempty" toml:"control_folder,omitempty"`
		WebResource   Rename `json:"web_resource,omitempty" yaml:"web_resource,omitempty" toml:"web_resource,omitempty"`
	}
)

const (
	// DefaultLocale is the English (United States) language code.
	DefaultLocale = "1033"
	// UnmanagedLiteral is the Managed element value of an unmanaged solution.
	UnmanagedLiteral = "0"

	// ControlsDir is the archive folder holding one folder per control.
	ControlsDir = "Controls"
	// WebResourcesDir is the archive folder holding web resources.
	WebResourcesDir = "WebResources"
	// ControlManifestName is the manifest file inside each control folder.
	ControlManifestName = "ControlManifest.xml"
)

// IsZero reports whether neither side of the rename is set.
func (r Rename) IsZero() bool { return r.Old == "" && r.New == "" }

// applyDefaults fills values the CUE schema defaults but YAML and TOML
// decoding leave empty.
func (s *Spec) applyDefaults() {
	if s.Locale == "" {
		s.Locale = DefaultLocale
	}
	if s.Solution.Managed == "" {
		s.Solution.Managed = UnmanagedLiteral
	}
}
