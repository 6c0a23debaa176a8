// Package logging assembles structured slog loggers and formatting helpers used
// across the grounding CLI.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes typed attribute helpers so the engine tags every line with the same
// keys (run_id, author_name, qid). The package also provides a no-op logger for
// tests and a sampler that paces periodic progress reports.
package logging
