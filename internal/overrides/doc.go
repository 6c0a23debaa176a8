// Package overrides loads curated author-to-entity matches and inserts them
// into the match store.
//
// Batches ship embedded in the binary (batches/*.yaml) and may be extended by
// YAML or JSON files listed in configuration. Entries are validated before
// anything is written. Apply never replaces an existing record: names absent
// from the corpus or already present in the store are reported as skipped.
package overrides
