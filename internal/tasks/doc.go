// Package tasks runs long character operations with real-time progress reporting.
//
// # Core Operations
//
// [Importer] has two operations:
//
//  1. [Importer.Import] : Bulk favorite import
//     - Fetches each id from the Marvel API, paced by a rate limiter
//     - Runs a bounded number of fetches concurrently
//     - Saves every fetched character to the local store
//     - Returns per-id results; one failed id never aborts the others
//
//  2. [Importer.Export] : Saved character export
//     - Reads the saved list from the local store
//     - Writes it as JSON, CSV, Markdown or plain text
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for UI rendering.
// Updates use select with default so a slow reader never stalls an import.
package tasks
