package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns canned responses in order and records every request.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []*provider.Response
	requests  [][]provider.Message
	err       error
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, messages)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &provider.Response{Message: provider.Message{Role: provider.RoleModel}}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

type testEnv struct {
	root     string
	cfg      *config.Config
	provider *scriptedProvider
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	env      map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Workspace.Root = root
	cfg.Tools.RunTimeoutSeconds = 5
	return &testEnv{
		root:     root,
		cfg:      cfg,
		provider: &scriptedProvider{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		env:      map[string]string{apiKeyEnv: "test-key"},
	}
}

func (e *testEnv) deps() Dependencies {
	return Dependencies{
		Stdout:     e.stdout,
		Stderr:     e.stderr,
		Getenv:     func(k string) string { return e.env[k] },
		LoadConfig: func() (*config.Config, error) { return e.cfg, nil },
		ProviderFactory: func(ctx context.Context, cfg *config.Config, apiKey string) (modelProvider, error) {
			return e.provider, nil
		},
		Console: func(verbose bool) *ui.Console {
			return ui.NewConsole(e.stdout, e.stderr, verbose, nil)
		},
	}
}

func (e *testEnv) run(args ...string) error {
	cmd := newApp(e.deps())
	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func call(id, name string, args map[string]any) provider.ToolCall {
	return provider.ToolCall{ID: id, Name: name, Args: args}
}

func toolTurn(calls ...provider.ToolCall) *provider.Response {
	return &provider.Response{Message: provider.Message{Role: provider.RoleModel, ToolCalls: calls}}
}

func answer(text string) *provider.Response {
	return &provider.Response{
		Message: provider.Message{Role: provider.RoleModel, Content: text},
		Usage:   provider.Usage{PromptTokens: 42, ResponseTokens: 8, TotalTokens: 50},
	}
}

func TestAgent_ListThenAnswer(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.root, "main.py"), []byte("print('hi')\n"), 0o644))
	e.provider.responses = []*provider.Response{
		toolTurn(call("1", "get_files_info", map[string]any{"directory": "."})),
		answer("There is one file: main.py"),
	}

	require.NoError(t, e.run("what", "files", "are", "here?"))

	out := e.stdout.String()
	assert.Contains(t, out, "- Calling function: get_files_info")
	assert.Contains(t, out, "Final response:\nThere is one file: main.py")
	assert.NotContains(t, out, "Prompt tokens")

	require.Len(t, e.provider.requests, 2)
	first := e.provider.requests[0]
	require.Len(t, first, 1)
	assert.Equal(t, "what files are here?", first[0].Content)

	second := e.provider.requests[1]
	require.Len(t, second, 3)
	toolMsg := second[2]
	assert.Equal(t, provider.RoleTool, toolMsg.Role)
	assert.False(t, toolMsg.Result.Failed())
	assert.Equal(t, "- main.py: file_size=12 bytes, is_dir=false", toolMsg.Result.Text())
}

func TestAgent_WriteThenRead(t *testing.T) {
	e := newTestEnv(t)
	e.provider.responses = []*provider.Response{
		toolTurn(
			call("1", "write_file", map[string]any{"file_path": "a/b/c.txt", "content": "hello"}),
			call("2", "get_file_content", map[string]any{"file_path": "a/b/c.txt"}),
		),
		answer("Wrote and read it back."),
	}

	require.NoError(t, e.run("write a file"))

	data, err := os.ReadFile(filepath.Join(e.root, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	second := e.provider.requests[1]
	require.Len(t, second, 4)
	assert.Equal(t, `Successfully wrote to "a/b/c.txt" (5 characters written)`, second[2].Result.Text())
	assert.Equal(t, "hello", second[3].Result.Text())
}

func TestAgent_EscapeAttemptIsFailureNotAbort(t *testing.T) {
	e := newTestEnv(t)
	e.provider.responses = []*provider.Response{
		toolTurn(call("1", "get_file_content", map[string]any{"file_path": "../../etc/passwd"})),
		answer("I cannot read that."),
	}

	require.NoError(t, e.run("read passwd"))

	toolMsg := e.provider.requests[1][2]
	assert.True(t, toolMsg.Result.Failed())
	assert.Contains(t, toolMsg.Result.Text(), "outside the permitted working directory")
	assert.Contains(t, e.stdout.String(), "I cannot read that.")
}

func TestAgent_VerboseKeepsTokenInPrompt(t *testing.T) {
	e := newTestEnv(t)
	e.provider.responses = []*provider.Response{answer("all good here")}

	require.NoError(t, e.run("hello", "--verbose"))

	out := e.stdout.String()
	assert.Contains(t, out, "User prompt: hello --verbose")
	assert.Contains(t, out, "Prompt tokens: 42")
	assert.Contains(t, out, "Response tokens: 8")
	assert.Equal(t, "hello --verbose", e.provider.requests[0][0].Content)
	// One model call per round even in verbose mode.
	assert.Len(t, e.provider.requests, 1)
	assert.Equal(t, 1, strings.Count(out, "all good here"))
}

func TestAgent_MaxIterationsWarnsButSucceeds(t *testing.T) {
	e := newTestEnv(t)
	e.cfg.Workflow.MaxIterations = 3
	for range 5 {
		e.provider.responses = append(e.provider.responses, toolTurn(call("x", "get_files_info", map[string]any{})))
	}

	require.NoError(t, e.run("loop"))
	assert.Len(t, e.provider.requests, 3)
	assert.Contains(t, e.stderr.String(), "maximum iterations reached")
}

func TestAgent_ModelErrorIsReported(t *testing.T) {
	e := newTestEnv(t)
	e.provider.err = &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed"}

	require.NoError(t, e.run("hello"))
	assert.Contains(t, e.stderr.String(), "authentication failed")
}

func TestAgent_StartupFailures(t *testing.T) {
	t.Run("no prompt", func(t *testing.T) {
		e := newTestEnv(t)
		assert.ErrorIs(t, e.run(), ErrNoPrompt)
		assert.Empty(t, e.provider.requests)
	})

	t.Run("one character prompt", func(t *testing.T) {
		e := newTestEnv(t)
		assert.ErrorIs(t, e.run("x"), ErrNoPrompt)
	})

	t.Run("missing api key", func(t *testing.T) {
		e := newTestEnv(t)
		delete(e.env, apiKeyEnv)
		err := e.run("hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), apiKeyEnv)
	})

	t.Run("missing root", func(t *testing.T) {
		e := newTestEnv(t)
		e.cfg.Workspace.Root = filepath.Join(e.root, "nope")
		assert.Error(t, e.run("hello"))
	})

	t.Run("config error", func(t *testing.T) {
		e := newTestEnv(t)
		deps := e.deps()
		deps.LoadConfig = func() (*config.Config, error) { return nil, errors.New("bad json") }
		cmd := newApp(deps)
		cmd.SetArgs([]string{"hello"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestReportStartupError(t *testing.T) {
	var out bytes.Buffer
	reportStartupError(&out, ErrNoPrompt)
	assert.Equal(t, "Please provide a prompt as a command-line argument.\n", out.String())

	out.Reset()
	reportStartupError(&out, errors.New("failed to load config: bad json"))
	assert.Equal(t, "failed to load config: bad json\n", out.String())
}

func TestAgent_Help(t *testing.T) {
	for _, arg := range []string{"help", "--help"} {
		t.Run(arg, func(t *testing.T) {
			e := newTestEnv(t)
			require.NoError(t, e.run(arg))
			assert.Contains(t, e.stdout.String(), "aiagent <prompt...>")
			assert.Empty(t, e.provider.requests)
		})
	}
}
