// Package config loads, normalizes, and validates grounding configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GROUND_DATABASE and WIKIDATA_USER_AGENT. The Config type centralizes every
// knob the CLI needs: where the corpus database lives, how Wikidata is
// queried, how fast outbound calls may be issued, and which curated override
// batches to apply.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
