package sonic

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const defaultTextWidth = 80

// ConsoleTextOutput prints each model text segment on its own line, prefixed
// with "Assistant:".
type ConsoleTextOutput struct {
	mu sync.Mutex

	w          io.Writer
	width      int
	labelStyle lipgloss.Style
	label      string
}

type ConsoleTextOutputOption func(*ConsoleTextOutput)

// WithTextWidth wraps text at width columns. Zero disables wrapping.
func WithTextWidth(width int) ConsoleTextOutputOption {
	return func(o *ConsoleTextOutput) {
		if width >= 0 {
			o.width = width
		}
	}
}

func NewConsoleTextOutput(w io.Writer, opts ...ConsoleTextOutputOption) *ConsoleTextOutput {
	o := &ConsoleTextOutput{
		w:          w,
		width:      defaultTextWidth,
		label:      "Assistant:",
		labelStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *ConsoleTextOutput) Display(text string) {
	if o.width > 0 {
		text = wordwrap.String(text, o.width-len(o.label)-1)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := fmt.Fprintf(o.w, "%s %s\n", o.labelStyle.Render(o.label), text); err != nil {
		logger.Warn("Failed to display text", "error", err)
	}
}
