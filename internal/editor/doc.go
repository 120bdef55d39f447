// Package editor installs editor extensions through the editor's own CLI
// (code, codium, cursor, ...). The ExtensionInstaller interface is the seam
// between the install loop and the external process, so tests and other
// editors can provide their own implementation.
package editor
