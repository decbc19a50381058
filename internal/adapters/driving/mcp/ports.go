package mcp

import (
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Review lists ayahs and submits actions.
	Review driving.ReviewService

	// History reads the operator journal. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
