package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for ayahrev resources.
	uriScheme = "ayahrev://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "surahs",
		Name:        "surahs",
		Description: "Surah numbers present in the review collection",
		MIMEType:    "application/json",
	}, s.handleSurahsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "ayahs/{id}",
		Name:        "ayah",
		Description: "Every field of one ayah, including media URLs",
		MIMEType:    "application/json",
	}, s.handleAyahResource)
}

// handleSurahsResource lists the surahs of the current collection.
func (s *Server) handleSurahsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snap, err := s.ports.Review.Refetch(ctx)
	if err != nil && len(snap.Items) == 0 {
		return nil, fmt.Errorf("fetching ayahs: %w", err)
	}

	return jsonResult(req.Params.URI, domain.SurahNumbers(snap.Items))
}

// handleAyahResource returns one ayah, fetching the collection when the
// last fetched copy does not contain it.
func (s *Server) handleAyahResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractAyahID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	item, ok := domain.FindAyah(s.ports.Review.Snapshot().Items, id)
	if !ok {
		snap, err := s.ports.Review.Refetch(ctx)
		if err != nil && len(snap.Items) == 0 {
			return nil, fmt.Errorf("fetching ayahs: %w", err)
		}
		if item, ok = domain.FindAyah(snap.Items, id); !ok {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
	}
	return jsonResult(req.Params.URI, item)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAyahID extracts the id from a URI like ayahrev://ayahs/{id}.
func extractAyahID(uri string) string {
	const prefix = uriScheme + "ayahs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
