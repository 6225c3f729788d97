// Package resolve binds names in a parsed schema.Model: parents, referenced
// and element types, count fields to the variable lists they size, and
// initial values to their target attributes.
//
// Resolution mutates the model in place and never reorders attributes. It
// is all-or-nothing: any error means the model is not self-consistent and
// no plan may be derived from it.
package resolve
