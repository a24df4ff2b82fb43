package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alerter/internal/adapter/input"
	"github.com/jmylchreest/alerter/internal/adapter/output"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/sim"
	"github.com/jmylchreest/alerter/internal/stack"
)

// drainLimit bounds the timer callbacks run when no --for is given.
const drainLimit = 100000

var simulateOpts struct {
	// Scenario options
	count    int
	corner   string
	input    string
	interval time.Duration
	close    []int
	click    []int
	runFor   time.Duration

	// Geometry options
	extent int
	margin int

	// Output options
	format    string
	template  string
	final     bool
	textWidth int
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay alerts against a virtual clock and print the stack",
	Long: `Show alerts on an in-memory surface and print where each one sits
after every show and close. Time is virtual, so the whole lifecycle,
fades included, runs instantly.

Positions are offsets from the anchored corner: y grows away from the
anchor edge, one slot (extent + margin) per alert below.

Examples:
  # Three alerts in the default corner, run until they expire
  alerter simulate

  # Close the middle one straight away and watch the stack compact
  alerter simulate --count 3 --close 2

  # Replay a scenario file and print JSON
  alerter simulate --input alerts.yaml --interval 1s --format json`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	// Scenario flags
	simulateCmd.Flags().IntVarP(&simulateOpts.count, "count", "n", 3,
		"Number of generated alerts (ignored with --input)")
	simulateCmd.Flags().StringVar(&simulateOpts.corner, "orientation", "",
		"Corner for generated alerts (default: the configured corner)")
	simulateCmd.Flags().StringVarP(&simulateOpts.input, "input", "i", "",
		"Read notifications from a file (- for stdin)")
	simulateCmd.Flags().DurationVar(&simulateOpts.interval, "interval", 0,
		"Virtual time between shows")
	simulateCmd.Flags().IntSliceVar(&simulateOpts.close, "close", nil,
		"Close these alerts (1-based) once all are shown")
	simulateCmd.Flags().IntSliceVar(&simulateOpts.click, "click", nil,
		"Click these alerts (1-based) once all are shown")
	simulateCmd.Flags().DurationVar(&simulateOpts.runFor, "for", 0,
		"Virtual time to run afterwards (0 = until every timer has fired)")

	// Geometry flags
	simulateCmd.Flags().IntVar(&simulateOpts.extent, "extent", 0,
		"Rendered alert height (default 50)")
	simulateCmd.Flags().IntVar(&simulateOpts.margin, "margin", 0,
		"Alert margin (default 15)")

	// Output flags
	simulateCmd.Flags().StringVarP(&simulateOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
	simulateCmd.Flags().StringVar(&simulateOpts.template, "template", "",
		"Go template executed per frame (plain format only)")
	simulateCmd.Flags().BoolVar(&simulateOpts.final, "final", false,
		"Only print the last frame (plain format only)")
	simulateCmd.Flags().IntVar(&simulateOpts.textWidth, "text-width", 40,
		"Truncate alert text to this width (0 = unlimited)")
}

func scenario(ctx context.Context) ([]model.Notification, error) {
	if simulateOpts.input != "" {
		imp, closeInput, err := input.Open(simulateOpts.input)
		if err != nil {
			return nil, err
		}
		defer func() { _ = closeInput() }()
		return imp.Import(ctx)
	}

	position := ""
	if simulateOpts.corner != "" {
		o, err := stack.ParseOrientation(simulateOpts.corner)
		if err != nil {
			return nil, err
		}
		position = o.String()
	}

	notifications := make([]model.Notification, simulateOpts.count)
	for i := range notifications {
		notifications[i] = model.Notification{
			AppName:  "simulate",
			Summary:  fmt.Sprintf("Alert #%d", i+1),
			Urgency:  model.UrgencyNormal,
			Position: position,
		}
	}
	return notifications, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(simulateOpts.format)
	if err != nil {
		return err
	}
	formatter, err := output.NewFormatter(format, output.FormatterOptions{
		Template:  simulateOpts.template,
		FinalOnly: simulateOpts.final,
		TextWidth: simulateOpts.textWidth,
	})
	if err != nil {
		return err
	}

	notifications, err := scenario(cmd.Context())
	if err != nil {
		return err
	}

	s, err := sim.New(sim.Options{
		Config: getConfig(),
		Theme:  loadTheme(""),
		Extent: simulateOpts.extent,
		Margin: simulateOpts.margin,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	for i := range notifications {
		if i > 0 {
			s.Advance(simulateOpts.interval)
		}
		if _, err := s.Show(&notifications[i]); err != nil {
			return fmt.Errorf("notification %d: %w", i+1, err)
		}
	}
	for _, index := range simulateOpts.close {
		if err := s.Close(index); err != nil {
			return err
		}
	}
	for _, index := range simulateOpts.click {
		if err := s.Click(index); err != nil {
			return err
		}
	}

	if simulateOpts.runFor > 0 {
		s.Advance(simulateOpts.runFor)
	} else {
		s.Drain(drainLimit)
	}

	return formatter.Format(os.Stdout, s.Frames())
}
