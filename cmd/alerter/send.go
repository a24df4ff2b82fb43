package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/alerter/internal/adapter/input"
	"github.com/jmylchreest/alerter/internal/dbus"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/stack"
)

var sendOpts struct {
	app        string
	urgency    string
	level      string
	timeout    time.Duration
	sticky     bool
	position   string
	id         string
	class      string
	foreground string
	background string
	sound      string
	noSound    bool
	replace    uint32
	input      string
	printID    bool
}

var sendCmd = &cobra.Command{
	Use:   "send <summary> [body]",
	Short: "Raise an alert through the notification daemon",
	Long: `Send a notification to whichever daemon owns org.freedesktop.Notifications.

alerterd honours the alerter-specific hints (position, level, id and class);
other daemons ignore them and show a regular notification.

With --input, notifications are read from a file ("-" for stdin) as a JSON
array, JSON lines, YAML or a bare string.

Examples:
  # A plain alert in the configured corner
  alerter send "Build finished"

  # A sticky error in the top-left corner
  alerter send "Deploy failed" "see CI logs" --level error --sticky --position top-left

  # Replace a previous alert
  id=$(alerter send "Uploading..." --print-id)
  alerter send "Upload complete" --replace "$id"

  # Several alerts from a YAML file
  alerter send --input alerts.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSend,
}

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close an alert by its notification id",
	Args:  cobra.ExactArgs(1),
	RunE:  runClose,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the running notification daemon",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(infoCmd)

	sendCmd.Flags().StringVar(&sendOpts.app, "app", "alerter",
		"Application name")
	sendCmd.Flags().StringVarP(&sendOpts.urgency, "urgency", "u", "normal",
		"Urgency (low, normal, critical)")
	sendCmd.Flags().StringVarP(&sendOpts.level, "level", "l", "",
		"Level class (info, success, warning, error)")
	sendCmd.Flags().DurationVarP(&sendOpts.timeout, "timeout", "t", 0,
		"Time before the alert fades (0 = configured default)")
	sendCmd.Flags().BoolVar(&sendOpts.sticky, "sticky", false,
		"Keep the alert until it is clicked or closed")
	sendCmd.Flags().StringVarP(&sendOpts.position, "position", "p", "",
		"Corner (top-left, top-right, bottom-left, bottom-right)")
	sendCmd.Flags().StringVar(&sendOpts.id, "id", "",
		"Theme element id to style the alert with")
	sendCmd.Flags().StringVar(&sendOpts.class, "class", "",
		"Theme classes to style the alert with (space separated)")
	sendCmd.Flags().StringVar(&sendOpts.foreground, "fg", "",
		"Text colour, e.g. #ffffff")
	sendCmd.Flags().StringVar(&sendOpts.background, "bg", "",
		"Background colour, e.g. #a200ff")
	sendCmd.Flags().StringVar(&sendOpts.sound, "sound", "",
		"Sound file to play instead of the urgency sound")
	sendCmd.Flags().BoolVar(&sendOpts.noSound, "no-sound", false,
		"Do not play a sound")
	sendCmd.Flags().Uint32Var(&sendOpts.replace, "replace", 0,
		"Notification id to replace")
	sendCmd.Flags().StringVarP(&sendOpts.input, "input", "i", "",
		"Read notifications from a file (- for stdin)")
	sendCmd.Flags().BoolVar(&sendOpts.printID, "print-id", false,
		"Print the assigned notification id")
}

// buildNotification turns the send flags and arguments into a notification.
func buildNotification(args []string) (*model.Notification, error) {
	n := &model.Notification{
		AppName:       sendOpts.app,
		Timeout:       sendOpts.timeout,
		Sticky:        sendOpts.sticky,
		ID:            sendOpts.id,
		Class:         sendOpts.class,
		Foreground:    sendOpts.foreground,
		Background:    sendOpts.background,
		SoundFile:     sendOpts.sound,
		SuppressSound: sendOpts.noSound,
	}
	if len(args) > 0 {
		n.Summary = args[0]
	}
	if len(args) > 1 {
		n.Body = args[1]
	}

	urgency, err := model.ParseUrgency(sendOpts.urgency)
	if err != nil {
		return nil, err
	}
	n.Urgency = urgency

	if n.Level, err = model.ParseLevel(sendOpts.level); err != nil {
		return nil, err
	}

	if sendOpts.position != "" {
		o, err := stack.ParseOrientation(sendOpts.position)
		if err != nil {
			return nil, err
		}
		n.Position = o.String()
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func readNotifications(ctx context.Context, args []string) ([]model.Notification, error) {
	if sendOpts.input == "" {
		n, err := buildNotification(args)
		if err != nil {
			return nil, err
		}
		return []model.Notification{*n}, nil
	}
	if len(args) > 0 {
		return nil, errors.New("--input cannot be combined with a summary argument")
	}

	imp, closeInput, err := input.Open(sendOpts.input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeInput() }()
	return imp.Import(ctx)
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifications, err := readNotifications(ctx, args)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return errors.New("nothing to send")
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	replace := sendOpts.replace
	for i := range notifications {
		id, err := client.Send(&notifications[i], replace)
		if err != nil {
			return err
		}
		replace = 0
		logger.Debug("notification sent", "id", id, "summary", notifications[i].Summary)
		if sendOpts.printID {
			fmt.Fprintln(os.Stdout, id)
		}
	}
	return nil
}

func runClose(cmd *cobra.Command, args []string) error {
	var id uint32
	if _, err := fmt.Sscan(strings.TrimSpace(args[0]), &id); err != nil || id == 0 {
		return fmt.Errorf("invalid notification id %q", args[0])
	}

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	return client.Close(id)
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	info, err := client.ServerInformation()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s %s (%s), spec %s\n", info.Name, info.Version, info.Vendor, info.SpecVersion)
	return nil
}
