// Package main provides the aiagent command-line interface.
// It sends a prompt to Gemini and lets the model list, read, write and run
// Python files inside the workspace root until it produces an answer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp(defaultDependencies()).ExecuteContext(ctx)
	if err != nil {
		stop()
		reportStartupError(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(deps Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aiagent <prompt...>",
		Short: "AI coding agent confined to one project directory",
		Long: `aiagent sends a prompt to Gemini and lets the model list, read and write
files and run Python scripts inside the workspace root until it answers.

Every argument becomes part of the prompt. A --verbose token anywhere turns
on diagnostics (prompt, token counts, tool results) and stays in the prompt.`,
		Example: `  Ask about the project:
  $ aiagent "what files are in the root?"

  Fix a bug with diagnostics:
  $ aiagent fix the bug in calculator/main.py --verbose`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && isHelp(args[0]) {
				return cmd.Help()
			}
			return runAgent(cmd.Context(), args, deps)
		},
	}
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)
	return rootCmd
}

func isHelp(arg string) bool {
	switch arg {
	case "help", "--help", "-h":
		return true
	}
	return false
}

// reportStartupError prints a startup failure for the user.
func reportStartupError(w io.Writer, err error) {
	if errors.Is(err, ErrNoPrompt) {
		fmt.Fprintln(w, noPromptMessage)
		return
	}
	fmt.Fprintln(w, err)
}
