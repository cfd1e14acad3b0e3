// Package domain defines the core types shared by the panokit tools.
//
// This package contains the records read from a Panorama management server
// and the tabular reports built from them.
//
// # Address Objects
//
// NamedObject is an address object (name plus raw value) read from one
// scope. A scope is a device group, or "shared" for objects defined outside
// any device group. Objects are only ever compared against objects of the
// same scope.
//
// # Duplicate Reports
//
// DuplicateReportRow describes one object that collides with at least one
// other object of its scope, either on name, on normalized value, or both.
// DuplicateKind is the set of axes on which the collision happened.
//
// # Exports
//
// Tag, SecurityRule and SystemInfo mirror the Panorama configuration
// entries exported by the tag, policy and info commands.
//
// Table is the format-neutral result every command hands to an exporter.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No network, file or database dependencies
package domain
