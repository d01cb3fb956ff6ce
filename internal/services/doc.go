// Package services defines shared utilities consumed by the analysis pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and component names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, parse, cache I/O, configuration) so the CLI can report
//     them consistently.
//
// Use these helpers when wiring new components so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
