package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/provider/gemini"
	"github.com/Cyclone1070/aiagent/internal/telemetry"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/tool/directory"
	"github.com/Cyclone1070/aiagent/internal/tool/file"
	"github.com/Cyclone1070/aiagent/internal/tool/script"
	"github.com/Cyclone1070/aiagent/internal/tool/service/executor"
	"github.com/Cyclone1070/aiagent/internal/tool/service/fs"
	"github.com/Cyclone1070/aiagent/internal/tool/service/git"
	"github.com/Cyclone1070/aiagent/internal/tool/service/path"
	"github.com/Cyclone1070/aiagent/internal/ui"
	"github.com/Cyclone1070/aiagent/internal/workflow"
	"github.com/Cyclone1070/aiagent/internal/workflow/loop"
	"github.com/Cyclone1070/aiagent/internal/workflow/toolmanager"
	"github.com/sirupsen/logrus"
)

const (
	apiKeyEnv    = "GEMINI_API_KEY"
	verboseToken = "--verbose"
)

// ErrNoPrompt is returned when the joined arguments are too short to be a prompt.
var ErrNoPrompt = errors.New("no prompt provided")

const noPromptMessage = "Please provide a prompt as a command-line argument."

// modelProvider is the model service the loop talks to.
type modelProvider interface {
	Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Stdout          io.Writer
	Stderr          io.Writer
	Getenv          func(string) string
	LoadConfig      func() (*config.Config, error)
	ProviderFactory func(ctx context.Context, cfg *config.Config, apiKey string) (modelProvider, error)
	Console         func(verbose bool) *ui.Console
}

func defaultDependencies() Dependencies {
	return Dependencies{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Getenv:          os.Getenv,
		LoadConfig:      config.Load,
		ProviderFactory: createRealProvider,
		Console:         ui.NewTerminalConsole,
	}
}

func createRealProvider(ctx context.Context, cfg *config.Config, apiKey string) (modelProvider, error) {
	client, err := gemini.NewClientFromAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return gemini.NewGeminiProvider(client, cfg.Provider.Model, cfg.Provider.SystemInstruction), nil
}

// createToolManager builds every tool bound to the canonical workspace root.
func createToolManager(cfg *config.Config, root string) *toolmanager.ToolManager {
	osFS := fs.NewOSFileSystem()
	resolver := path.NewResolver(root)
	commandExecutor := executor.NewOSCommandExecutor(cfg)

	var ignore interface {
		ShouldIgnore(relativePath string, isDir bool) bool
	} = git.NoOpMatcher{}
	if cfg.Tools.RespectGitignore {
		matcher, err := git.NewIgnoreMatcher(root, osFS)
		if err != nil {
			logrus.WithError(err).Warn("failed to load .gitignore, listing everything")
		} else {
			ignore = matcher
		}
	}

	return toolmanager.NewToolManager(
		directory.NewGetFilesInfoTool(osFS, resolver, ignore),
		file.NewGetFileContentTool(osFS, resolver, cfg),
		file.NewWriteFileTool(osFS, resolver),
		script.NewRunPythonFileTool(osFS, resolver, commandExecutor, cfg),
	)
}

func configureLogging(cfg config.LogConfig, verbose bool, out io.Writer) error {
	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(new(logrus.JSONFormatter))
	case "text":
		logrus.SetFormatter(new(logrus.TextFormatter))
	default:
		return fmt.Errorf("unsupported log format: %q", cfg.Format)
	}
	logrus.SetOutput(out)
	return nil
}

// runAgent performs startup and runs one request. Startup failures are
// returned as errors; once the loop has started every outcome is reported
// on the console and nil is returned.
func runAgent(ctx context.Context, args []string, deps Dependencies) error {
	prompt := strings.Join(args, " ")
	if utf8.RuneCountInString(strings.TrimSpace(prompt)) < 2 {
		return ErrNoPrompt
	}
	verbose := slices.Contains(args, verboseToken)

	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := configureLogging(cfg.Log, verbose, deps.Stderr); err != nil {
		return err
	}

	apiKey := deps.Getenv(apiKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%s environment variable is required", apiKeyEnv)
	}

	root, err := path.CanonicaliseRoot(cfg.Workspace.Root)
	if err != nil {
		return fmt.Errorf("failed to canonicalize workspace root: %w", err)
	}

	metrics := telemetry.NewMetrics()
	tracing, err := telemetry.NewTracerSetup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("failed to flush traces")
		}
		if err := metrics.WriteToTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
			logrus.WithError(err).Warn("failed to write metrics textfile")
		}
	}()

	tools := createToolManager(cfg, root).
		WithMetrics(metrics).
		WithTracer(tracing.Tracer())

	p, err := deps.ProviderFactory(ctx, cfg, apiKey)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"root":  root,
		"model": cfg.Provider.Model,
	}).Debug("starting agent")

	console := deps.Console(verbose)
	console.UserPrompt(prompt)

	events := make(chan workflow.Event)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		console.Consume(events)
	}()

	out, runErr := loop.NewLoop(p, tools, events, cfg.Workflow.MaxIterations).
		WithMetrics(metrics).
		Run(ctx, prompt)
	close(events)
	<-rendered

	console.Rounds(out.Rounds)

	var invErr *loop.ModelInvocationError
	switch {
	case errors.As(runErr, &invErr):
		console.Error(invErr.Error())
	case runErr != nil:
		console.Warn(fmt.Sprintf("run interrupted: %v", runErr))
	case out.State == loop.Done:
		console.FinalAnswer(out.Answer)
	default:
		console.Warn(out.Reason.Error())
	}
	return nil
}
