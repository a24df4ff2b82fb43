package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/alerter/internal/tui"
)

var demoOpts struct {
	theme string
	mouse bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive alert playground",
	Long: `Launch a terminal playground that stacks alerts in the corners of the screen.

Alerts use the configured theme and timings, so the demo is a quick way
to preview a config before running alerterd.

Key bindings:
  1-4         Spawn in top-left, top-right, bottom-left, bottom-right
  n, enter    Spawn in the configured corner
  x           Close the newest alert
  X           Close every alert
  a           Toggle autohide for new alerts
  l           Cycle the level class (info, success, warning, error)
  c           Copy the newest alert's text to the clipboard
  click       Dismiss an alert
  ?           Show help
  q           Quit`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.theme, "theme", "",
		"Theme to preview (default: the configured theme)")
	demoCmd.Flags().BoolVar(&demoOpts.mouse, "mouse", true,
		"Enable mouse clicks")
}

func runDemo(cmd *cobra.Command, args []string) error {
	c := *getConfig()
	if cmd.Flags().Changed("mouse") {
		c.Terminal.Mouse = demoOpts.mouse
	}

	return tui.Run(tui.RunOptions{
		Config: &c,
		Theme:  loadTheme(demoOpts.theme),
		Logger: logger,
	})
}
