package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print live split outcomes",
	Long: `Subscribes to the backend's push stream and prints one line per outcome
until interrupted. Set events.reconnect_delay to keep watching across
dropped connections.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if liveUpdates == nil {
		return errNotConfigured("live updates (is events.enabled false?)")
	}

	err := liveUpdates.Run(cmd.Context(), newLineNotifier(cmd.OutOrStdout()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Ensure lineNotifier implements the interface.
var _ driving.Notifier = (*lineNotifier)(nil)

// lineNotifier prints each push outcome as a timestamped line.
type lineNotifier struct {
	out io.Writer
	now func() time.Time
}

func newLineNotifier(out io.Writer) *lineNotifier {
	return &lineNotifier{out: out, now: time.Now}
}

func (n *lineNotifier) printf(format string, args ...any) {
	fmt.Fprintf(n.out, "%s  "+format+"\n", append([]any{n.now().Format(time.TimeOnly)}, args...)...)
}

func (n *lineNotifier) SplitCompleted(itemID string, snapshot domain.ListSnapshot, err error) {
	status := "unknown"
	if item, ok := domain.FindAyah(snapshot.Items, itemID); ok {
		status = string(item.Status())
	}
	n.printf("split finished  %s (%s)", itemID, status)
	if err != nil {
		n.printf("refresh failed: %v", err)
	}
}

func (n *lineNotifier) SplitFailed(itemID, reason string) {
	if reason == "" {
		reason = "unknown error"
	}
	n.printf("split failed    %s: %s", itemID, reason)
}

func (n *lineNotifier) Resynced(snapshot domain.ListSnapshot, err error) {
	if err != nil {
		n.printf("resync failed: %v", err)
		return
	}
	n.printf("resynced        %d ayahs", len(snapshot.Items))
}

func (n *lineNotifier) ConnectionChanged(connected bool) {
	if connected {
		n.printf("connected")
		return
	}
	n.printf("disconnected")
}
