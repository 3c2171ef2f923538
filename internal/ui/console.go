package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Cyclone1070/aiagent/internal/workflow"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// markdownRenderer renders markdown for the terminal.
type markdownRenderer interface {
	Render(in string) (string, error)
}

// Console renders workflow events and the final answer as plain lines.
// Diagnostics (prompt, token counts, tool results) appear only in verbose mode.
type Console struct {
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	renderer markdownRenderer
}

// NewConsole creates a Console. A nil renderer prints answers verbatim.
func NewConsole(out, errOut io.Writer, verbose bool, renderer markdownRenderer) *Console {
	if out == nil {
		panic("out is required")
	}
	if errOut == nil {
		errOut = out
	}
	return &Console{
		out:      out,
		errOut:   errOut,
		verbose:  verbose,
		renderer: renderer,
	}
}

// NewTerminalConsole writes to stdout and stderr, rendering answers with
// glamour when stdout is a terminal.
func NewTerminalConsole(verbose bool) *Console {
	var renderer markdownRenderer
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			logrus.WithError(err).Warn("markdown renderer unavailable, printing plain text")
		} else {
			renderer = r
		}
	}
	return NewConsole(os.Stdout, os.Stderr, verbose, renderer)
}

// Consume handles events until the channel is closed.
func (c *Console) Consume(events <-chan workflow.Event) {
	for ev := range events {
		c.Handle(ev)
	}
}

// Handle renders one event.
func (c *Console) Handle(ev workflow.Event) {
	switch e := ev.(type) {
	case workflow.UsageEvent:
		if c.verbose {
			c.println(DiagnosticStyle.Render(fmt.Sprintf("Prompt tokens: %d", e.Usage.PromptTokens)))
			c.println(DiagnosticStyle.Render(fmt.Sprintf("Response tokens: %d", e.Usage.ResponseTokens)))
		}
	case workflow.TextEvent:
		// The answer is printed by FinalAnswer.
		if c.verbose && !e.Final {
			c.println(DiagnosticStyle.Render(e.Text))
		}
	case workflow.ToolStartEvent:
		line := "- Calling function: " + e.ToolName
		if c.verbose && e.RequestDisplay != "" {
			line += "(" + e.RequestDisplay + ")"
		}
		c.println(ToolCallStyle.Render(line))
	case workflow.ToolEndEvent:
		if !c.verbose {
			return
		}
		envelope, err := json.Marshal(e.Result.Envelope())
		if err != nil {
			envelope = []byte(e.Result.Text())
		}
		style := ToolResultStyle
		if e.Result.Failed() {
			style = ToolFailureStyle
		}
		c.println(style.Render("-> " + string(envelope)))
	case workflow.ThinkingEvent, workflow.DoneEvent:
	}
}

// UserPrompt echoes the prompt in verbose mode.
func (c *Console) UserPrompt(prompt string) {
	if c.verbose {
		c.println(DiagnosticStyle.Render("User prompt: " + prompt))
	}
}

// Rounds reports the iteration count in verbose mode.
func (c *Console) Rounds(n int) {
	if c.verbose {
		c.println(DiagnosticStyle.Render(fmt.Sprintf("Iterations: %d", n)))
	}
}

// FinalAnswer prints the model's answer, rendered as markdown when possible.
func (c *Console) FinalAnswer(text string) {
	c.println("Final response:")
	if c.renderer != nil {
		rendered, err := c.renderer.Render(text)
		if err == nil {
			fmt.Fprint(c.out, rendered)
			if !strings.HasSuffix(rendered, "\n") {
				fmt.Fprintln(c.out)
			}
			return
		}
		logrus.WithError(err).Debug("markdown render failed")
	}
	c.println(text)
}

// Warn prints a warning to the error stream.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.errOut, WarningStyle.Render("Warning: "+msg))
}

// Error prints an error to the error stream.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.errOut, ErrorStyle.Render("Error: "+msg))
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
