// Package normalize maps raw extracted records onto the canonical shapes
// consumed by reconciliation and export.
//
// Normalization never fails. Dates that cannot be parsed become nil, counts
// that cannot be parsed become zero, and only capability rows carrying an
// affirmative check mark become operation grants.
package normalize
