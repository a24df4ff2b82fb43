package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/theme"
)

var themesOpts struct {
	json bool
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List bundled and user themes",
	Long: `List the bundled themes and any user themes in ~/.config/alerter/themes.

A user theme with the same name as a bundled one replaces it. The active
theme is marked with an asterisk.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().BoolVar(&themesOpts.json, "json", false,
		"Output as JSON")
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.ListAvailableThemes(config.ThemesDir())
	if err != nil {
		logger.Warn("failed to read user themes", "error", err)
	}

	if themesOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(themes)
	}

	active := getConfig().Alert.Theme
	for _, t := range themes {
		marker := " "
		if t.Name == active {
			marker = "*"
		}
		source := "bundled"
		if !t.IsBundled {
			source = t.Path
		}
		fmt.Fprintf(os.Stdout, "%s %-12s %-40s %s\n", marker, t.Name, t.Description, source)
	}
	return nil
}
