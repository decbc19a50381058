package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// historyLimit caps ayah_history when no id is given.
const historyLimit = 50

// ListAyahsInput is the input schema for the list_ayahs tool.
type ListAyahsInput struct {
	Surah *int `json:"surah,omitempty" jsonschema:"only return ayahs of this surah"`
}

// ListAyahsOutput is the output schema for the list_ayahs tool.
type ListAyahsOutput struct {
	Ayahs []AyahOutput `json:"ayahs"`
	Count int          `json:"count"`
	// RefreshError is set when the fetch failed and Ayahs are the last good rows.
	RefreshError string `json:"refresh_error,omitempty"`
}

// AyahOutput is one ayah as seen by the assistant.
type AyahOutput struct {
	ID                   string   `json:"id"`
	Status               string   `json:"status"`
	Actions              []string `json:"actions"`
	WER                  *float64 `json:"wer,omitempty"`
	SourceTranslation    string   `json:"source_translation,omitempty"`
	EnglishTranscription string   `json:"english_transcription,omitempty"`
}

// AyahIDInput is the input schema for tools acting on one ayah.
type AyahIDInput struct {
	ID string `json:"id" jsonschema:"ayah identifier such as 2_255"`
}

// SplitAtInput is the input schema for the split_ayah_at tool.
type SplitAtInput struct {
	ID          string `json:"id" jsonschema:"ayah identifier such as 2_255"`
	SplitTimeMS int64  `json:"split_time_ms" jsonschema:"split offset in milliseconds from the start of the combined clip"`
}

// ActionOutput is the output schema for mutating tools.
type ActionOutput struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// HistoryInput is the input schema for the ayah_history tool.
type HistoryInput struct {
	ID string `json:"id,omitempty" jsonschema:"ayah identifier; omit for recent entries across all ayahs"`
}

// HistoryOutput is the output schema for the ayah_history tool.
type HistoryOutput struct {
	Entries []HistoryEntryOutput `json:"entries"`
	Count   int                  `json:"count"`
}

// HistoryEntryOutput is one journal entry.
type HistoryEntryOutput struct {
	ItemID      string `json:"item_id"`
	Kind        string `json:"kind"`
	SplitTimeMS int64  `json:"split_time_ms,omitempty"`
	Detail      string `json:"detail,omitempty"`
	At          string `json:"at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_ayahs",
		Description: "Fetch the review collection, optionally restricted to one surah",
	}, s.handleListAyahs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "split_ayah",
		Description: "Ask the backend to re-split an ayah at a point it picks itself",
	}, s.handleSplit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "split_ayah_at",
		Description: "Ask the backend to re-split an ayah at a given millisecond offset",
	}, s.handleSplitAt)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "approve_ayah",
		Description: "Force-accept an ayah whose transcription does not match",
	}, s.handleApprove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ayah_history",
		Description: "Read the operator journal for one ayah or across all ayahs",
	}, s.handleHistory)
}

func (s *Server) handleListAyahs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAyahsInput,
) (*mcp.CallToolResult, ListAyahsOutput, error) {
	snap, err := s.ports.Review.Refetch(ctx)
	if err != nil && len(snap.Items) == 0 {
		return nil, ListAyahsOutput{}, fmt.Errorf("fetching ayahs: %w", err)
	}

	items := snap.Items
	if input.Surah != nil {
		items = domain.FilterBySurah(items, *input.Surah)
	}

	output := ListAyahsOutput{
		Ayahs:        make([]AyahOutput, len(items)),
		Count:        len(items),
		RefreshError: snap.RefreshErr,
	}
	for i := range items {
		output.Ayahs[i] = toAyahOutput(&items[i])
	}
	return nil, output, nil
}

func toAyahOutput(a *domain.Ayah) AyahOutput {
	actions := a.Actions()
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}
	return AyahOutput{
		ID:                   a.ID,
		Status:               string(a.Status()),
		Actions:              names,
		WER:                  a.WER,
		SourceTranslation:    deref(a.SourceTranslation),
		EnglishTranscription: deref(a.EnglishTranscription),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) handleSplit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AyahIDInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	if err := validateID(input.ID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.ports.Review.Split(ctx, input.ID); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("split %s: %w", input.ID, err)
	}
	return nil, ActionOutput{
		ID:      input.ID,
		Action:  string(domain.ActionAutoSplit),
		Message: "split requested; the outcome arrives asynchronously",
	}, nil
}

func (s *Server) handleSplitAt(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SplitAtInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	if err := validateID(input.ID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.ports.Review.SplitAt(ctx, input.ID, input.SplitTimeMS); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("split %s at %d ms: %w", input.ID, input.SplitTimeMS, err)
	}
	return nil, ActionOutput{
		ID:      input.ID,
		Action:  string(domain.ActionEdit),
		Message: fmt.Sprintf("split at %d ms requested", input.SplitTimeMS),
	}, nil
}

func (s *Server) handleApprove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AyahIDInput,
) (*mcp.CallToolResult, ActionOutput, error) {
	if err := validateID(input.ID); err != nil {
		return nil, ActionOutput{}, err
	}
	if err := s.ports.Review.Approve(ctx, input.ID); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("approve %s: %w", input.ID, err)
	}
	return nil, ActionOutput{
		ID:      input.ID,
		Action:  string(domain.ActionApprove),
		Message: "approval requested",
	}, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, domain.ErrNotImplemented
	}

	var (
		entries []domain.JournalEntry
		err     error
	)
	if input.ID == "" {
		entries, err = s.ports.History.Recent(ctx, historyLimit)
	} else {
		entries, err = s.ports.History.ForItem(ctx, input.ID)
	}
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Entries: make([]HistoryEntryOutput, len(entries)),
		Count:   len(entries),
	}
	for i := range entries {
		output.Entries[i] = HistoryEntryOutput{
			ItemID:      entries[i].ItemID,
			Kind:        string(entries[i].Kind),
			SplitTimeMS: entries[i].SplitTimeMS,
			Detail:      entries[i].Detail,
			At:          entries[i].At.UTC().Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func validateID(id string) error {
	_, _, err := domain.ParseAyahID(id)
	return err
}
