// Package gen turns marshal plans into source code.
//
// Backends implement Emitter and are looked up by name in a Registry. Each
// backend renders one file per message type from the plan alone; the
// built-in "go" backend uses text/template and formats its output with
// golang.org/x/tools/imports.
//
// For every type the Go backend generates:
//   - a struct embedding the parent type as its first field
//   - a getter and setter per stored attribute, a length getter per count field
//   - text accessors for byte arrays flagged as strings
//   - New<T> applying defaults and initial values
//   - MarshalWire, UnmarshalWire, MarshalledSize and Equal
//
// Generated code imports the wire runtime package of this module.
package gen
