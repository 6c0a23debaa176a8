// Package matchstore persists author grounding decisions in the
// author_wikidata table of the corpus SQLite database.
//
// The table is keyed by the exact corpus name string. Upsert replaces the
// decision columns of an existing row but leaves it untouched when nothing
// changed, so repeated runs over the same inputs do not churn timestamps.
// InsertOverride adds curated rows and never replaces an existing one.
//
// Schema changes bump schemaVersion in schema.go. Tables are created with
// IF NOT EXISTS so a database written by earlier tooling is adopted in place.
// A grounding_runs table records one row per engine invocation.
package matchstore
