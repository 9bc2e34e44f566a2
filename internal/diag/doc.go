// Package diag defines the diagnostic model shared by all front-end phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the lexer, reader and expander.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form; ranges
//     are allocated per phase (1xxx lexer, 2xxx reader, 4xxx expander).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "binding introduced here") rather than repeat the main message.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. A phase
// constructs a ReportBuilder via ReportError/ReportWarning, chains WithNote,
// then calls Emit. diag.BagReporter aggregates into a Bag, which supports
// sorting and deduplication for stable CLI output.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
