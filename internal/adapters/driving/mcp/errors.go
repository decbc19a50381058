// Package mcp provides an MCP (Model Context Protocol) server adapter for ayahrev.
// It lets AI assistants list ayahs and request splits and approvals.
package mcp

import "errors"

// ErrMissingReviewService is returned when the review service is not provided.
var ErrMissingReviewService = errors.New("mcp: review service is required")
