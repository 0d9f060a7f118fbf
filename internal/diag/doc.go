// Package diag defines the located-diagnostic model shared by the template
// decoder, the driver and the CLI.
//
// A Diagnostic carries a Severity, a stable Code (rendered as PCK1001, IO4001,
// ...), a short message and the primary source.Span it refers to, plus optional
// Notes pointing at secondary spans (for example the exact modifier that made a
// directive invalid).
//
// Producers emit through a Reporter so they stay decoupled from storage;
// BagReporter collects into a Bag, which enforces a limit and sorts output
// deterministically. Rendering lives in internal/diagfmt.
package diag
