// SPDX-License-Identifier: MPL-2.0

package testutil

// Sample documents shaped like a managed SecurityRoleManager export.
const (
	// SolutionXML is a managed solution manifest with a publisher block and
	// root components for the control and its web resource.
	SolutionXML = `<?xml version="1.0" encoding="utf-8"?>
<ImportExportXml version="9.2.24054.198" SolutionPackageVersion="9.2" languagecode="1033" generatedBy="CrmLive">
  <SolutionManifest>
    <UniqueName>cn_Cathal.SecurityRoleManager</UniqueName>
    <LocalizedNames>
      <LocalizedName description="Cathal Security Role Manager" languagecode="1033" />
      <LocalizedName description="Gestionnaire de rôles" languagecode="1036" />
    </LocalizedNames>
    <Descriptions />
    <Version>1.2.3</Version>
    <Managed>1</Managed>
    <Publisher>
      <UniqueName>CathalNoonan</UniqueName>
      <LocalizedNames>
        <LocalizedName description="Cathal Noonan" languagecode="1033" />
      </LocalizedNames>
      <Descriptions>
        <Description description="Cathal's publisher" languagecode="1033" />
      </Descriptions>
      <EMailAddress xsi:nil="true" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"></EMailAddress>
      <CustomizationPrefix>cn</CustomizationPrefix>
      <CustomizationOptionValuePrefix>10000</CustomizationOptionValuePrefix>
    </Publisher>
    <RootComponents>
      <RootComponent type="66" schemaName="cn_Cathal.SecurityRoleManager" behavior="0" />
      <RootComponent type="61" schemaName="cc_Cathal.SecurityRoleManager/bundle.js.map" behavior="0" />
    </RootComponents>
    <MissingDependencies />
  </SolutionManifest>
</ImportExportXml>
`

	// SolutionXMLNoPublisher is SolutionXML without the Publisher subtree.
	SolutionXMLNoPublisher = `<?xml version="1.0" encoding="utf-8"?>
<ImportExportXml version="9.2.24054.198">
  <SolutionManifest>
    <UniqueName>cn_Cathal.SecurityRoleManager</UniqueName>
    <LocalizedNames>
      <LocalizedName description="Cathal Security Role Manager" languagecode="1033" />
    </LocalizedNames>
    <Version>1.2.3</Version>
    <Managed>1</Managed>
    <RootComponents>
      <RootComponent type="66" schemaName="cn_Cathal.SecurityRoleManager" behavior="0" />
      <RootComponent type="61" schemaName="cc_Cathal.SecurityRoleManager/bundle.js.map" behavior="0" />
    </RootComponents>
  </SolutionManifest>
</ImportExportXml>
`

	// CustomizationsXML registers the control and its web resource.
	CustomizationsXML = `<?xml version="1.0" encoding="utf-8"?>
<ImportExportXml xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <Entities />
  <WebResources>
    <WebResource>
      <WebResourceId>{6f1c5a9e-0000-4000-8000-000000000001}</WebResourceId>
      <Name>cc_Cathal.SecurityRoleManager/bundle.js.map</Name>
      <DisplayName>bundle.js.map</DisplayName>
      <WebResourceType>3</WebResourceType>
      <FileName>/WebResources/cc_Cathal.SecurityRoleManager/bundle.js.map</FileName>
    </WebResource>
  </WebResources>
  <CustomControls>
    <CustomControl>
      <Name>cn_Cathal.SecurityRoleManager</Name>
      <FileName>/Controls/cn_Cathal.SecurityRoleManager/ControlManifest.xml</FileName>
    </CustomControl>
  </CustomControls>
  <Languages>
    <Language>1033</Language>
  </Languages>
</ImportExportXml>
`

	// ControlManifestXML declares the control under the old namespace.
	ControlManifestXML = `<?xml version="1.0" encoding="utf-8"?>
<manifest>
  <control namespace="cn" constructor="SecurityRoleManager" version="1.2.3" display-name-key="SecurityRoleManager" control-type="standard">
    <resources>
      <code path="bundle.js" order="1" />
    </resources>
  </control>
</manifest>
`

	// ContentTypesXML is an unrelated entry that no rule touches.
	ContentTypesXML = `<?xml version="1.0" encoding="utf-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/octet-stream" /></Types>`
)

// ManagedSolutionFiles returns the entries of a complete managed export.
func ManagedSolutionFiles() map[string]string {
	return map[string]string{
		"[Content_Types].xml":                                        ContentTypesXML,
		"solution.xml":                                               SolutionXML,
		"customizations.xml":                                         CustomizationsXML,
		"WebResources/cc_Cathal.SecurityRoleManager/bundle.js.map":   `{"version":3,"sources":["index.ts"]}`,
		"Controls/cn_Cathal.SecurityRoleManager/ControlManifest.xml": ControlManifestXML,
		"Controls/cn_Cathal.SecurityRoleManager/bundle.js":           "console.log('srm');",
		"Other/Readme.txt":                                           "untouched",
	}
}
