// Package grounding drives the per-author resolution loop.
//
// WorkQueue removes names that already have a stored decision and orders
// the rest by article count. For each queued identity the Engine searches
// the knowledge base (honorific-stripped form first, original as fallback),
// fetches details for the top candidates, scores them, picks the best with
// SelectBest, and upserts the decision. Knowledge-base failures degrade to
// absent signals; they never abort an identity.
//
// The loop is strictly sequential. Cancellation is observed only between
// identities: the identity in flight when the run context is cancelled
// finishes on a detached context and is persisted.
package grounding
