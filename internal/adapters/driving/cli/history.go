package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

var (
	historyItem  string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the operator journal",
	Long: `Shows recorded actions and pushed outcomes, newest first. The journal is
kept in a local database when journal.enabled is true and in memory
otherwise, where it only covers the current command.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyItem, "item", "i", "", "only show entries for this ayah")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history service")
	}

	var (
		entries []domain.JournalEntry
		err     error
	)
	if historyItem != "" {
		entries, err = historyService.ForItem(cmd.Context(), historyItem)
		if len(entries) > historyLimit && historyLimit > 0 {
			entries = entries[:historyLimit]
		}
	} else {
		entries, err = historyService.Recent(cmd.Context(), historyLimit)
	}
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if historyJSON {
		if entries == nil {
			entries = []domain.JournalEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No journal entries.")
		return nil
	}
	for i := range entries {
		cmd.Println(formatEntry(&entries[i]))
	}
	return nil
}

func formatEntry(e *domain.JournalEntry) string {
	line := fmt.Sprintf("%s  %-9s %-18s", e.At.Local().Format(time.DateTime), e.ItemID, e.Kind)
	if e.Kind == domain.JournalSplitAtRequested {
		line += fmt.Sprintf(" at %d ms", e.SplitTimeMS)
	}
	if e.Detail != "" {
		line += " " + e.Detail
	}
	return line
}
