// Package match provides name normalization, Levenshtein distance and
// candidate ranking used to suggest corrections for unknown type, field and
// setter names in a schema.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates / Suggest: ranks known names against an unknown one
package match
