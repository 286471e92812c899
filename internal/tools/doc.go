// Package tools provides the ocean-data preprocessing tool registry.
//
// # Architecture
//
// Each tool wraps one preprocessing operation from the domain packages
// (table, transform, qc, mask, dataset, pipeline, delegate) behind a
// uniform contract: a structured input decoded from the model's JSON
// arguments, and a Result carrying row counts, a preview, warnings, and
// generated file paths.
//
// # Design principles
//
//   - Explicit registry: the tool list is built once by NewRegistry from
//     toolsets and passed by reference. No package-level cache.
//   - Dependency injection: validators, config limits, and the delegate
//     runner arrive via toolset constructors.
//   - In-band failures: tools return (Result, nil) with Result.Error set
//     so the model can read and correct the failure. A non-nil Go error
//     is reserved for programmer mistakes.
//   - Validate before processing: file existence, extension whitelist,
//     size ceiling, and required parameters are checked before any row is
//     touched.
package tools
