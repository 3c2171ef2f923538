package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	calls        int
	generateFunc func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

func (m *mockProvider) Generate(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	m.calls++
	return m.generateFunc(ctx, messages, tools)
}

type mockToolManager struct {
	declarations []tool.Declaration
	executed     []string
	executeFunc  func(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error)
}

func (m *mockToolManager) Declarations() []tool.Declaration {
	return m.declarations
}

func (m *mockToolManager) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
	m.executed = append(m.executed, tc.ID)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, tc, events)
	}
	return provider.Message{Role: provider.RoleTool, ToolCallID: tc.ID, ToolName: tc.Name, Result: tool.Success("ok")}, nil
}

type mockMetrics struct {
	modelCalls int
	failed     int
	rounds     []int
}

func (m *mockMetrics) RecordModelCall(failed bool, d time.Duration, promptTokens, responseTokens int) {
	m.modelCalls++
	if failed {
		m.failed++
	}
}

func (m *mockMetrics) RecordRounds(rounds int) { m.rounds = append(m.rounds, rounds) }

func textResponse(text string, usage provider.Usage) *provider.Response {
	return &provider.Response{
		Message: provider.Message{Role: provider.RoleModel, Content: text},
		Usage:   usage,
	}
}

func toolResponse(calls ...provider.ToolCall) *provider.Response {
	return &provider.Response{
		Message: provider.Message{Role: provider.RoleModel, ToolCalls: calls},
		Usage:   provider.Usage{PromptTokens: 10, ResponseTokens: 2, TotalTokens: 12},
	}
}

func drain(events chan workflow.Event) []workflow.Event {
	var out []workflow.Event
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestNewLoop_PanicsOnMissingDeps(t *testing.T) {
	assert.Panics(t, func() { NewLoop(nil, &mockToolManager{}, nil, 1) })
	assert.Panics(t, func() { NewLoop(&mockProvider{}, nil, nil, 1) })
	assert.Panics(t, func() { NewLoop(&mockProvider{}, &mockToolManager{}, nil, 0) })
}

func TestRun_SingleTurn_TextOnly(t *testing.T) {
	events := make(chan workflow.Event, 10)
	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			require.Len(t, messages, 1)
			assert.Equal(t, provider.RoleUser, messages[0].Role)
			assert.Equal(t, "Hi", messages[0].Content)
			return textResponse("Hello!", provider.Usage{PromptTokens: 5, ResponseTokens: 1, TotalTokens: 6}), nil
		},
	}

	out, err := NewLoop(mp, &mockToolManager{}, events, 5).Run(context.Background(), "Hi")
	require.NoError(t, err)

	assert.Equal(t, Done, out.State)
	assert.Equal(t, "Hello!", out.Answer)
	assert.Equal(t, 1, out.Rounds)
	assert.Nil(t, out.Reason)
	assert.Equal(t, 6, out.Usage.TotalTokens)
	require.Len(t, out.Transcript, 2)
	assert.Equal(t, provider.RoleModel, out.Transcript[1].Role)

	assert.Equal(t, []workflow.Event{
		workflow.ThinkingEvent{Round: 1},
		workflow.UsageEvent{Round: 1, Usage: provider.Usage{PromptTokens: 5, ResponseTokens: 1, TotalTokens: 6}},
		workflow.TextEvent{Text: "Hello!", Final: true},
		workflow.DoneEvent{},
	}, drain(events))
}

func TestRun_ToolCallsDispatchedInOrder(t *testing.T) {
	mp := &mockProvider{}
	mp.generateFunc = func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
		if mp.calls == 1 {
			return toolResponse(
				provider.ToolCall{ID: "a", Name: "get_files_info"},
				provider.ToolCall{ID: "b", Name: "get_file_content"},
				provider.ToolCall{ID: "c", Name: "write_file"},
			), nil
		}
		// Second round sees every tool result, in call order.
		require.Len(t, messages, 5)
		assert.Equal(t, "a", messages[2].ToolCallID)
		assert.Equal(t, "b", messages[3].ToolCallID)
		assert.Equal(t, "c", messages[4].ToolCallID)
		return textResponse("All done.", provider.Usage{}), nil
	}
	mtm := &mockToolManager{}

	out, err := NewLoop(mp, mtm, nil, 5).Run(context.Background(), "do it")
	require.NoError(t, err)

	assert.Equal(t, Done, out.State)
	assert.Equal(t, "All done.", out.Answer)
	assert.Equal(t, 2, out.Rounds)
	assert.Equal(t, 2, mp.calls)
	assert.Equal(t, []string{"a", "b", "c"}, mtm.executed)
	assert.Len(t, out.Transcript, 6)
}

func TestRun_AlwaysCallingTools_AbortsAtMaxIterations(t *testing.T) {
	for _, limit := range []int{1, 3, 20} {
		mp := &mockProvider{
			generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
				return toolResponse(provider.ToolCall{ID: "x", Name: "get_files_info"}), nil
			},
		}
		metrics := &mockMetrics{}

		out, err := NewLoop(mp, &mockToolManager{}, nil, limit).WithMetrics(metrics).Run(context.Background(), "loop forever")
		require.NoError(t, err)

		assert.Equal(t, Aborted, out.State)
		assert.ErrorIs(t, out.Reason, ErrMaxIterations)
		assert.Equal(t, limit, out.Rounds)
		assert.Equal(t, limit, mp.calls)
		assert.Equal(t, limit, metrics.modelCalls)
		assert.Equal(t, []int{limit}, metrics.rounds)
		assert.Equal(t, limit*12, out.Usage.TotalTokens)
	}
}

func TestRun_EmptyResponse_Aborts(t *testing.T) {
	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			return textResponse("", provider.Usage{}), nil
		},
	}

	out, err := NewLoop(mp, &mockToolManager{}, nil, 5).Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, Aborted, out.State)
	assert.ErrorIs(t, out.Reason, ErrEmptyResponse)
	assert.Equal(t, 1, out.Rounds)
	// The empty model turn is still recorded.
	assert.Len(t, out.Transcript, 2)
}

func TestRun_ModelError_Aborts(t *testing.T) {
	providerErr := &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed"}
	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			return nil, providerErr
		},
	}
	metrics := &mockMetrics{}
	events := make(chan workflow.Event, 10)

	out, err := NewLoop(mp, &mockToolManager{}, events, 5).WithMetrics(metrics).Run(context.Background(), "q")

	var invErr *ModelInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 1, invErr.Round)
	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, Aborted, out.State)
	assert.Equal(t, err, out.Reason)
	assert.Equal(t, 0, out.Rounds)
	assert.Equal(t, 1, metrics.failed)

	evs := drain(events)
	assert.Equal(t, workflow.DoneEvent{}, evs[len(evs)-1])
}

func TestRun_ContextCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mp := &mockProvider{}

	out, err := NewLoop(mp, &mockToolManager{}, nil, 5).Run(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Aborted, out.State)
	assert.Equal(t, 0, mp.calls)
}

func TestRun_ContextCancelledDuringTool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			return toolResponse(provider.ToolCall{ID: "1", Name: "run_python_file"}, provider.ToolCall{ID: "2", Name: "get_files_info"}), nil
		},
	}
	mtm := &mockToolManager{
		executeFunc: func(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
			cancel()
			return provider.Message{}, ctx.Err()
		},
	}

	out, err := NewLoop(mp, mtm, nil, 5).Run(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Aborted, out.State)
	assert.Equal(t, []string{"1"}, mtm.executed)
	assert.Equal(t, 1, mp.calls)
}

func TestRun_ProviderErrorAfterCancelReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			cancel()
			return nil, errors.New("request aborted")
		},
	}

	_, err := NewLoop(mp, &mockToolManager{}, nil, 5).Run(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_PassesDeclarations(t *testing.T) {
	decls := []tool.Declaration{{Name: "get_files_info"}, {Name: "write_file"}}
	mp := &mockProvider{
		generateFunc: func(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
			assert.Equal(t, decls, tools)
			return textResponse("ok", provider.Usage{}), nil
		},
	}

	_, err := NewLoop(mp, &mockToolManager{declarations: decls}, nil, 5).Run(context.Background(), "q")
	require.NoError(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_model", AwaitingModel.String())
	assert.Equal(t, "dispatching", Dispatching.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "aborted", Aborted.String())
}
