// Package config manages user-level settings stored at ~/.devboot/config.yaml.
// Values can be overridden with DEVBOOT_* environment variables, e.g.
// DEVBOOT_EDITOR=codium selects a different editor CLI.
package config
