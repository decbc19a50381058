package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and edit configuration",
	Long: `Reads and edits the TOML configuration file.

Keys:
  backend.url             backend base URL (default http://localhost:8000)
  backend.timeout         per-request timeout, e.g. 30s (default 0s, none)
  events.enabled          listen for pushed outcomes (default true)
  events.reconnect_delay  re-subscribe pacing, e.g. 5s (default 0s, never)
  audio.player            playback binary (default ffplay)
  audio.probe             duration probe binary (default ffprobe)
  journal.enabled         keep the journal on disk (default true)`,
	Annotations: map[string]string{lenientAnnotation: ""},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	v, ok := settingsService.Get(args[0])
	if !ok {
		cmd.Println("(not set)")
		return nil
	}
	cmd.Println(fmt.Sprint(v))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}
	cmd.Println(settingsService.Path())
	return nil
}
