// Package types defines the distribution mode, path set, credential, and
// migration value objects for the presswatch storage layout, together with
// the standard error values shared across the subsystem.
package types
