// Package platform provides cross-platform filesystem operations: atomic
// file replacement and permission management. On Windows permission bits
// are ignored.
package platform
