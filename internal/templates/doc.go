// Package templates holds the files devboot lays into a workspace. The
// default set is embedded in the binary; a template override directory can
// shadow any file by providing one with the same relative name.
package templates
