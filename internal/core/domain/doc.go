// Package domain defines the core review entities for ayah-review.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Ayah: A verse-level audio/text record under review
//   - Event: A push notification from the segmentation backend
//   - Listing: The list fetch state machine
//   - SplitPoint: The operator's chosen split timestamp
//   - JournalEntry: A recorded operator action or push outcome
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
