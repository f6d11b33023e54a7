// Package domain defines the core business entities for phapdien.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A submitted PDF with its optional page window
//   - LegalUnit: One numbered article ("Điều N.") of a legal text
//   - CorpusSnapshot: A point-in-time view of stored article texts
//   - Decision: The reconciliation outcome for one article
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
