// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InputNotFoundId Id = iota + 1
	AmbiguousInputId
	ArchiveReadFailedId
	ArchiveWriteFailedId
	DocumentParseFailedId
	FilesystemFailedId
	ConfigLoadFailedId
	PlanInvalidId
	ResidualsFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation about the issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# No managed solution found!

solpack looks for a single file named like ` + "`<Product>_<version>_managed.zip`" + ` in the input directory.

## Things you can try:
- Copy the managed export into the input directory (default ` + "`Input`" + `)
- Point solpack at another directory:
~~~
$ solpack repackage --input-dir ./exports
~~~

- Or name the archive explicitly:
~~~
$ solpack repackage --input ./exports/SecurityRoleManager_1.2.3_managed.zip
~~~`,
	}

	ambiguousInputIssue = &Issue{
		id: AmbiguousInputId,
		mdMsg: `
# More than one managed solution!

The input directory holds several ` + "`*_managed.zip`" + ` files and solpack will not guess which one to repackage.

## Things you can try:
- Remove the archives you do not want from the input directory
- Select one explicitly:
~~~
$ solpack repackage --input Input/SecurityRoleManager_1.2.3_managed.zip
~~~`,
	}

	archiveReadFailedIssue = &Issue{
		id: ArchiveReadFailedId,
		mdMsg: `
# Failed to read the archive!

The input file is not a readable ZIP archive, or one of its entries is corrupt.

## Things you can try:
- Export the solution again from the platform
- Check that the download completed and the file is not truncated
- Test the archive with your ZIP tool of choice`,
	}

	archiveWriteFailedIssue = &Issue{
		id: ArchiveWriteFailedId,
		mdMsg: `
# Failed to write the output archive!

The unmanaged archive could not be written. No partial archive was left behind.

## Common causes:
- The output directory is not writable
- The disk is full

## Things you can try:
- Choose another output directory:
~~~
$ solpack repackage --output-dir /tmp/solutions
~~~`,
	}

	documentParseFailedIssue = &Issue{
		id: DocumentParseFailedId,
		mdMsg: `
# Failed to parse a manifest!

A manifest inside the archive (` + "`solution.xml`, `customizations.xml` or a `ControlManifest.xml`" + `) is not well-formed XML.

## Things you can try:
- Inspect the document in the workspace, which is kept after this failure
- Export the solution again from the platform
- Run with verbose mode to see every edit applied before the failure:
~~~
$ solpack --verbose repackage
~~~`,
	}

	filesystemFailedIssue = &Issue{
		id: FilesystemFailedId,
		mdMsg: `
# Filesystem operation failed!

A file or folder could not be created, moved or removed.

## Common causes:
- Permission denied on the workspace or output directory
- A file already exists where a renamed file should go
- The disk is full

## Things you can try:
- Check the permissions of the workspace directory
- Delete the workspace directory by hand and retry`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the solpack configuration file.

## Configuration file locations:
- ` + "`--config <file>`" + ` when given
- Linux: ~/.config/solpack/config.cue
- macOS: ~/Library/Application Support/solpack/config.cue
- Windows: %APPDATA%\solpack\config.cue
- ` + "`solpack.cue`" + ` in the current directory

## Things you can try:
- Print the effective configuration:
~~~
$ solpack config show
~~~

- Remove the config file to use defaults

## Example configuration:
~~~cue
input_dir:     "Input"
output_dir:    "Packaged Solutions"
workspace_dir: "Temporary"
ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	planInvalidIssue = &Issue{
		id: PlanInvalidId,
		mdMsg: `
# Invalid rename plan!

The rename plan could not be loaded or failed validation. Every problem found is listed above.

## Common issues:
- Two rules share the same old value in one scope
- A path is absolute or contains ` + "`..`" + `
- A required new value is empty

## Things you can try:
- Validate the plan on its own:
~~~
$ solpack plan validate plan.yaml
~~~

- Compare with the built-in plan:
~~~
$ solpack plan show
~~~`,
	}

	residualsFoundIssue = &Issue{
		id: ResidualsFoundId,
		mdMsg: `
# Old identifiers remain!

The archive still contains old identifiers from the rename plan in entry paths or contents.

## Things you can try:
- Add a component rename for each identifier listed above to your plan
- Re-run the repackage with verbose output to see which edits were made:
~~~
$ solpack --verbose repackage
~~~`,
	}

	issues = map[Id]*Issue{
		inputNotFoundIssue.Id():       inputNotFoundIssue,
		ambiguousInputIssue.Id():      ambiguousInputIssue,
		archiveReadFailedIssue.Id():   archiveReadFailedIssue,
		archiveWriteFailedIssue.Id():  archiveWriteFailedIssue,
		documentParseFailedIssue.Id(): documentParseFailedIssue,
		filesystemFailedIssue.Id():    filesystemFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		planInvalidIssue.Id():         planInvalidIssue,
		residualsFoundIssue.Id():      residualsFoundIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
