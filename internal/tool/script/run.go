package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/tool/service/executor"
	"github.com/Cyclone1070/aiagent/internal/tool/service/path"
	"github.com/sirupsen/logrus"
)

// RunPythonFileTool executes a workspace Python script.
type RunPythonFileTool struct {
	fs           fileSystem
	pathResolver pathResolver
	executor     commandExecutor
	config       *config.Config
}

// NewRunPythonFileTool creates a new RunPythonFileTool with injected dependencies.
func NewRunPythonFileTool(fs fileSystem, pathResolver pathResolver, executor commandExecutor, cfg *config.Config) *RunPythonFileTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if executor == nil {
		panic("executor is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &RunPythonFileTool{
		fs:           fs,
		pathResolver: pathResolver,
		executor:     executor,
		config:       cfg,
	}
}

func (t *RunPythonFileTool) Name() string {
	return "run_python_file"
}

func (t *RunPythonFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "run_python_file",
		Description: "Executes a Python file with optional arguments, constrained to the working directory, and returns its output.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "Path of the Python file to execute, relative to the working directory.",
				},
				"args": {
					Type:        tool.TypeArray,
					Description: "Optional arguments passed to the script.",
					Items:       &tool.Schema{Type: tool.TypeString},
				},
			},
			Required: []string{"file_path"},
		},
	}
}

func (t *RunPythonFileTool) Input() any {
	return &RunPythonFileRequest{}
}

func (t *RunPythonFileTool) timeout() time.Duration {
	return time.Duration(t.config.Tools.RunTimeoutSeconds) * time.Second
}

// Execute runs the script and maps every outcome to a tool result.
// A non-zero exit is a Failure that still carries the captured streams.
func (t *RunPythonFileTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	req, ok := input.(*RunPythonFileRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid request type: %T", input)
	}

	res, err := t.Run(ctx, req.FilePath, req.Args)

	var notFound *executor.InterpreterNotFoundError
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace):
		return tool.Failure(fmt.Sprintf("Cannot execute %q as it is outside the permitted working directory", req.FilePath)), nil
	case errors.Is(err, ErrFileNotFound):
		return tool.Failure(fmt.Sprintf("File %q not found.", req.FilePath)), nil
	case errors.Is(err, ErrNotPython):
		return tool.Failure(fmt.Sprintf("%q is not a Python file.", req.FilePath)), nil
	case errors.Is(err, executor.ErrTimeout):
		return tool.Failure(fmt.Sprintf("execution of %q timed out after %s", req.FilePath, t.timeout())), nil
	case errors.As(err, &notFound):
		return tool.Failure(notFound.Error()), nil
	case ctx.Err() != nil:
		return tool.Result{}, ctx.Err()
	case err != nil:
		return tool.Failure(fmt.Sprintf("failed to execute %q: %v", req.FilePath, err)), nil
	}

	streams := formatStreams(res.Stdout, res.Stderr)
	if res.ExitCode != 0 {
		msg := fmt.Sprintf("Process exited with code %d", res.ExitCode)
		if streams != "" {
			msg += "\n" + streams
		}
		return tool.Failure(msg), nil
	}
	if streams == "" {
		return tool.Success("No output produced."), nil
	}
	return tool.Success(streams), nil
}

// Run checks containment, existence and extension in that order, then runs
// the configured interpreter on the script with the workspace root as the
// working directory.
func (t *RunPythonFileTool) Run(ctx context.Context, filePath string, args []string) (*executor.Result, error) {
	abs, err := t.pathResolver.Abs(filePath)
	if err != nil {
		return nil, err
	}

	if _, err := t.fs.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if filepath.Ext(filePath) != ".py" {
		return nil, ErrNotPython
	}

	command := append([]string{t.config.Tools.PythonInterpreter, abs}, args...)
	logrus.WithFields(logrus.Fields{
		"script": filePath,
		"args":   len(args),
	}).Debug("running python file")

	return t.executor.RunWithTimeout(ctx, command, t.pathResolver.Root(), nil, t.timeout())
}
