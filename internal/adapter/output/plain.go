package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/alerter/internal/sim"
)

// PlainFormatter formats frames as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter. An invalid template
// is an error.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	f := &PlainFormatter{opts: opts}
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.TextWidth)).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		f.template = tmpl
	}
	return f, nil
}

// Format writes each frame followed by its stack.
func (f *PlainFormatter) Format(w io.Writer, frames []sim.Frame) error {
	if f.opts.FinalOnly && len(frames) > 0 {
		frames = frames[len(frames)-1:]
	}
	for i := range frames {
		if err := f.formatFrame(w, i+1, &frames[i]); err != nil {
			return err
		}
	}
	return nil
}

// templateData provides data for custom templates.
type templateData struct {
	Index int
	Frame *sim.Frame
}

func (f *PlainFormatter) formatFrame(w io.Writer, index int, fr *sim.Frame) error {
	if f.template != nil {
		return f.template.Execute(w, templateData{Index: index, Frame: fr})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%7s] %s #%d", formatAt(fr.At.Duration()), fr.Event, fr.Alert)
	if fr.Reason != "" {
		fmt.Fprintf(&sb, " (%s)", fr.Reason)
	}
	sb.WriteString("\n")

	if len(fr.Stack) == 0 {
		sb.WriteString("          (empty)\n")
	}
	for _, st := range fr.Stack {
		fmt.Fprintf(&sb, "          #%-3d %-12s x=%-4d y=%-5d %3d%% %-8s %s\n",
			st.Alert, st.Corner, st.X, st.Y, st.Opacity, st.State, oneLine(st.Text, f.opts.TextWidth))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// formatAt renders virtual time with millisecond precision.
func formatAt(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// oneLine flattens text and truncates it to width cells.
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width > 0 {
		s = ansi.Truncate(s, width, "...")
	}
	return s
}

// templateFuncs returns template helper functions.
func templateFuncs(width int) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return oneLine(s, maxLen)
		},
		"oneline": func(s string) string {
			return oneLine(s, width)
		},
		"at": func(fr *sim.Frame) string {
			return formatAt(fr.At.Duration())
		},
	}
}
