package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

var errNoClipboard = errors.New("no clipboard command available")

// copyText pipes text into the clipboard command.
func copyText(text, command string) error {
	cmd := detectClipboardCommand(command, exec.LookPath)
	if cmd == "" {
		return errNoClipboard
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectClipboardCommand returns the configured command, or the first of
// wl-copy, xclip and xsel found by lookPath.
func detectClipboardCommand(configured string, lookPath func(string) (string, error)) string {
	if configured != "" {
		return configured
	}

	candidates := []struct{ bin, cmd string }{
		{"wl-copy", "wl-copy"},
		{"xclip", "xclip -selection clipboard"},
		{"xsel", "xsel --clipboard --input"},
	}
	for _, c := range candidates {
		if _, err := lookPath(c.bin); err == nil {
			return c.cmd
		}
	}
	return ""
}
