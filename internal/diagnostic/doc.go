// Package diagnostic provides structured errors and warnings for schema
// resolution and plan validation.
//
// Every diagnostic names the offending type and, when one is involved, the
// offending field. Resolution errors make the whole model untrustworthy and
// abort the run; validation errors are scoped to a single type and are
// collected so that all failures are reported together.
package diagnostic
