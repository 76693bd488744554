// Package registry provides a generic, type-safe registry of named
// items. The feature registry is built on top of it; registration is
// append-only and safe for concurrent use.
package registry
