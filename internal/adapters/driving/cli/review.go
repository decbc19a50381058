package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

var (
	listSurah int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ayahs and their review status",
	Long: `Fetches the review collection from the backend and prints one row per
ayah, grouped by surah in ayah order.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var splitCmd = &cobra.Command{
	Use:   "split <id>",
	Short: "Request an automatic re-split",
	Long: `Asks the backend to re-split an ayah at a point it picks itself.
The outcome arrives later; use 'ayahrev watch' or the console to see it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

var splitAtCmd = &cobra.Command{
	Use:   "split-at <id> <ms>",
	Short: "Request a re-split at a given offset",
	Long:  `Asks the backend to re-split an ayah at <ms> milliseconds into the combined clip.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSplitAt,
}

var approveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Force-accept a mismatching ayah",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprove,
}

func init() {
	listCmd.Flags().IntVarP(&listSurah, "surah", "s", 0, "only list this surah")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output ayahs as JSON")
	rootCmd.AddCommand(listCmd, splitCmd, splitAtCmd, approveCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if reviewService == nil {
		return errNotConfigured("review service")
	}

	snap, err := reviewService.Refetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching ayahs: %w", err)
	}

	surahs := domain.SurahNumbers(snap.Items)
	if cmd.Flags().Changed("surah") {
		surahs = []int{listSurah}
	}

	var items []domain.Ayah
	for _, s := range surahs {
		items = append(items, domain.FilterBySurah(snap.Items, s)...)
	}

	if listJSON {
		return outputListJSON(cmd, items)
	}
	outputListTable(cmd, items)
	return nil
}

func outputListJSON(cmd *cobra.Command, items []domain.Ayah) error {
	if items == nil {
		items = []domain.Ayah{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ayahs: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputListTable(cmd *cobra.Command, items []domain.Ayah) {
	if len(items) == 0 {
		cmd.Println("No ayahs found.")
		return
	}

	cmd.Printf("%-9s %-9s %-7s %s\n", "AYAH", "STATUS", "WER", "ACTIONS")
	for i := range items {
		wer := "-"
		if items[i].WER != nil {
			wer = fmt.Sprintf("%.3f", *items[i].WER)
		}
		actions := items[i].Actions()
		labels := make([]string, len(actions))
		for j, a := range actions {
			labels[j] = a.Label()
		}
		cmd.Printf("%-9s %-9s %-7s %s\n", items[i].ID, items[i].Status(), wer, strings.Join(labels, ", "))
	}
	cmd.Printf("\n%d ayahs\n", len(items))
}

func runSplit(cmd *cobra.Command, args []string) error {
	id, err := ayahArg(args[0])
	if err != nil {
		return err
	}
	if err := reviewService.Split(cmd.Context(), id); err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	cmd.Printf("Split requested for %s.\n", id)
	return nil
}

func runSplitAt(cmd *cobra.Command, args []string) error {
	id, err := ayahArg(args[0])
	if err != nil {
		return err
	}
	ms, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || ms < 0 {
		return fmt.Errorf("%w: split time must be a non-negative number of milliseconds, got %q",
			domain.ErrInvalidInput, args[1])
	}
	if err := reviewService.SplitAt(cmd.Context(), id, ms); err != nil {
		return fmt.Errorf("split failed: %w", err)
	}
	cmd.Printf("Split at %d ms requested for %s.\n", ms, id)
	return nil
}

func runApprove(cmd *cobra.Command, args []string) error {
	id, err := ayahArg(args[0])
	if err != nil {
		return err
	}
	if err := reviewService.Approve(cmd.Context(), id); err != nil {
		return fmt.Errorf("approve failed: %w", err)
	}
	cmd.Printf("Approval requested for %s.\n", id)
	return nil
}

// ayahArg validates an identifier argument and the review service.
func ayahArg(id string) (string, error) {
	if reviewService == nil {
		return "", errNotConfigured("review service")
	}
	if _, _, err := domain.ParseAyahID(id); err != nil {
		return "", err
	}
	return id, nil
}
