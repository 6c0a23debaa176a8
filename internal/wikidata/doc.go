// Package wikidata is a small client for the two Wikidata surfaces the
// grounding engine needs: the Action API entity search (wbsearchentities) and
// the SPARQL query service for per-entity details and membership checks.
//
// Every request carries a descriptive User-Agent and is optionally paced by a
// ratelimit.Pacer. Failures come back as *Error values wrapping ErrTransient,
// ErrMalformed, ErrNotFound or ErrInvalidID so callers can decide with
// errors.Is how to degrade. Response payloads are decoded defensively: fields
// that are missing or oddly typed are treated as absent rather than failing
// the whole response.
package wikidata
