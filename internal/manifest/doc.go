// Package manifest handles parsing and validation of the devboot workspace
// manifest (devboot.yaml). A manifest lists the editor extensions to install,
// the JSON templates to merge into the project, the plain files to seed, and
// the prerequisites to check. Manifests are validated against an embedded
// JSON Schema before they are used.
package manifest
