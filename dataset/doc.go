// Package dataset loads the raw personal-records table and classifies its
// columns into numeric, categorical and sensitive roles.
//
// Records are immutable once loaded. Sensitive columns stay visible to
// exact-match query filters but are excluded from feature construction and
// from aggregation; that exclusion is enforced by the schema roles declared
// here and checked once at load time.
package dataset
