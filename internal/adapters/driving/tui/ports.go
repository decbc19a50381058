// Package tui provides the interactive review console.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces used by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Review owns the collection and submits operator actions.
	Review driving.ReviewService

	// Live runs the push listener. Optional; without it the console
	// only refreshes on demand and after local actions.
	Live driving.LiveUpdates

	// Playback probes and plays audio. Optional; play keys and the
	// split-point scrubber report an error without it.
	Playback driving.PlaybackService

	// History reads the operator journal. Optional.
	History driving.HistoryService

	// Settings resolves configuration and reports file changes. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required review service.
func NewPorts(review driving.ReviewService) *Ports {
	return &Ports{Review: review}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
