package loop

import (
	"context"
	"time"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/workflow"
	"github.com/sirupsen/logrus"
)

// Loop drives one request through alternating model calls and tool
// dispatches until the model answers or the round budget runs out.
type Loop struct {
	provider      llmProvider
	tools         toolManager
	events        chan<- workflow.Event
	maxIterations int
	metrics       metricsRecorder
}

func NewLoop(provider llmProvider, tools toolManager, events chan<- workflow.Event, maxIterations int) *Loop {
	if provider == nil {
		panic("provider is required")
	}
	if tools == nil {
		panic("tools is required")
	}
	if maxIterations <= 0 {
		panic("maxIterations must be positive")
	}
	return &Loop{
		provider:      provider,
		tools:         tools,
		events:        events,
		maxIterations: maxIterations,
	}
}

// WithMetrics records model calls and run length on metrics.
func (l *Loop) WithMetrics(metrics metricsRecorder) *Loop {
	l.metrics = metrics
	return l
}

// Run executes the request. Exactly one model call is made per round and
// tool calls are dispatched sequentially in the order the model gave them.
//
// The returned Outcome is never nil. The error is non-nil only when the
// model call fails (*ModelInvocationError) or ctx is cancelled; an empty
// response or an exhausted budget ends the run Aborted with a nil error
// and the cause in Outcome.Reason.
func (l *Loop) Run(ctx context.Context, prompt string) (*Outcome, error) {
	transcript := workflow.NewTranscript(prompt)
	out := &Outcome{State: AwaitingModel}

	defer func() {
		out.Transcript = transcript.Messages()
		if l.metrics != nil {
			l.metrics.RecordRounds(out.Rounds)
		}
		l.emit(workflow.DoneEvent{})
	}()

	decls := l.tools.Declarations()

	for out.Rounds < l.maxIterations {
		if err := ctx.Err(); err != nil {
			return l.abort(out, err), err
		}

		round := out.Rounds + 1
		l.emit(workflow.ThinkingEvent{Round: round})

		start := time.Now()
		resp, err := l.provider.Generate(ctx, transcript.Messages(), decls)
		elapsed := time.Since(start)
		if err != nil {
			if l.metrics != nil {
				l.metrics.RecordModelCall(true, elapsed, 0, 0)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return l.abort(out, ctxErr), ctxErr
			}
			invErr := &ModelInvocationError{Round: round, Cause: err}
			return l.abort(out, invErr), invErr
		}

		out.Rounds = round
		out.Usage = out.Usage.Add(resp.Usage)
		if l.metrics != nil {
			l.metrics.RecordModelCall(false, elapsed, resp.Usage.PromptTokens, resp.Usage.ResponseTokens)
		}
		l.emit(workflow.UsageEvent{Round: round, Usage: resp.Usage})

		msg := resp.Message
		msg.Role = provider.RoleModel
		transcript.Append(msg)

		if msg.Content != "" {
			l.emit(workflow.TextEvent{Text: msg.Content, Final: len(msg.ToolCalls) == 0})
		}

		logrus.WithFields(logrus.Fields{
			"round":      round,
			"tool_calls": len(msg.ToolCalls),
			"has_text":   msg.Content != "",
		}).Debug("model turn received")

		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return l.abort(out, ErrEmptyResponse), nil
			}
			out.State = Done
			out.Answer = msg.Content
			return out, nil
		}

		out.State = Dispatching
		for _, tc := range msg.ToolCalls {
			toolMsg, err := l.tools.Execute(ctx, tc, l.events)
			if err != nil {
				return l.abort(out, err), err
			}
			transcript.Append(toolMsg)
		}
		out.State = AwaitingModel
	}

	logrus.WithField("max_iterations", l.maxIterations).Warn("maximum iterations reached")
	return l.abort(out, ErrMaxIterations), nil
}

func (l *Loop) abort(out *Outcome, reason error) *Outcome {
	out.State = Aborted
	out.Reason = reason
	return out
}

func (l *Loop) emit(ev workflow.Event) {
	if l.events != nil {
		l.events <- ev
	}
}
