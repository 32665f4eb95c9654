// Package services defines shared utilities consumed by the sync pipeline
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp dynasty IDs, season IDs, sync states, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (retry vs. manual entry) with errors.Is.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across packages.
package services
