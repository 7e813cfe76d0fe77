package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Settings live in config.toml in the config directory (~/.proxsearch by default).

Keys:
  search.max_gap           default gap when --gap is not given
  search.max_matches       match cap, 1 to 10000
  search.case_insensitive  ignore case by default
  search.whole_word        match whole words by default
  search.gap_unit          chars, bytes or words
  preprocess.steps         normalisation steps, e.g. zerowidth,whitespace
  watch.interval_ms        minimum time between watch searches`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Validate and store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	settings, err := settingsService()
	if err != nil {
		return err
	}

	for _, key := range settings.Keys() {
		value, err := settings.Value(key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settings, err := settingsService()
	if err != nil {
		return err
	}

	value, err := settings.Value(args[0])
	if err != nil {
		return fmt.Errorf("get %s: %w", args[0], err)
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	settings, err := settingsService()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settings.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	effective, err := settings.Value(key)
	if err != nil {
		effective = value
	}
	cmd.Printf("%s = %s\n", key, effective)
	return nil
}
