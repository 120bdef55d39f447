// Package bootstrap runs a workspace bootstrap end to end: prerequisite
// checks, editor extension installs, JSON template merges and plain file
// seeding, in that order.
//
// Error policy: an unavailable template, a failed extension install and an
// undeterminable tool version are reported and the run continues. Anything
// else aborts the run immediately; files written by earlier steps stay as
// they are and the failing target is left untouched.
package bootstrap
