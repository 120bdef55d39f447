// Package cli defines the Cobra command tree for the devboot CLI. Each file
// registers one top-level command with the root command. Commands resolve
// flags and configuration into bootstrap options and delegate the work to
// internal packages.
package cli
