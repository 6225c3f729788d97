// Package analyze type-checks generated Go packages.
//
// It loads a directory with golang.org/x/tools/go/packages, reports parse and
// type errors, and builds a small report of the package's struct types and
// their method sets so callers can verify that every message type carries the
// generated API.
package analyze
