package toolmanager

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Cyclone1070/aiagent/internal/provider"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/workflow"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ToolManager owns the tool registry and dispatches model tool calls.
// Tools are bound to the workspace root at construction, so calls can
// neither supply nor override it.
type ToolManager struct {
	registry map[string]toolImpl
	metrics  metricsRecorder
	tracer   trace.Tracer
}

func NewToolManager(tools ...toolImpl) *ToolManager {
	tm := &ToolManager{
		registry: make(map[string]toolImpl),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, t := range tools {
		tm.Register(t)
	}
	return tm
}

// WithMetrics records every call on m.
func (m *ToolManager) WithMetrics(metrics metricsRecorder) *ToolManager {
	m.metrics = metrics
	return m
}

// WithTracer starts a span per call on tracer.
func (m *ToolManager) WithTracer(tracer trace.Tracer) *ToolManager {
	if tracer != nil {
		m.tracer = tracer
	}
	return m
}

func (m *ToolManager) Register(t toolImpl) {
	m.registry[t.Name()] = t
}

func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Execute runs one tool call and returns its result as a tool message.
// Unknown tools, invalid arguments and tool panics all become Failure
// results. An error is returned only when ctx is cancelled.
func (m *ToolManager) Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.Message, error) {
	ctx, span := m.tracer.Start(ctx, "tool.execute", trace.WithAttributes(
		attribute.String("tool.name", tc.Name),
		attribute.String("tool.call_id", tc.ID),
	))
	defer span.End()

	t, req, display, rejected := m.prepare(tc)

	if events != nil {
		events <- workflow.ToolStartEvent{
			ToolName:       tc.Name,
			CallID:         tc.ID,
			RequestDisplay: display,
		}
	}

	start := time.Now()
	result := rejected
	if t != nil {
		var err error
		result, err = m.invoke(ctx, t, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if events != nil {
				events <- workflow.ToolEndEvent{
					ToolName: tc.Name,
					CallID:   tc.ID,
					Result:   tool.Failure("Cancelled"),
				}
			}
			return provider.Message{}, err
		}
	}
	elapsed := time.Since(start)

	if events != nil {
		events <- workflow.ToolEndEvent{
			ToolName: tc.Name,
			CallID:   tc.ID,
			Result:   result,
		}
	}

	if result.Failed() {
		span.SetStatus(codes.Error, result.Text())
	}
	if m.metrics != nil {
		m.metrics.RecordToolCall(tc.Name, result.Failed(), elapsed)
	}
	logrus.WithFields(logrus.Fields{
		"tool":     tc.Name,
		"call_id":  tc.ID,
		"failed":   result.Failed(),
		"duration": elapsed,
	}).Debug("tool call finished")

	return provider.Message{
		Role:       provider.RoleTool,
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
		Result:     result,
	}, nil
}

// prepare resolves the tool and decodes the call's arguments into its
// request struct. When the call is rejected the tool is nil and the
// Failure to return is set.
func (m *ToolManager) prepare(tc provider.ToolCall) (t toolImpl, req any, display string, rejected tool.Result) {
	t, ok := m.registry[tc.Name]
	if !ok {
		logrus.WithField("tool", tc.Name).Warn("model requested unknown tool")
		return nil, nil, "", tool.Failure(fmt.Errorf("%w: %s", ErrUnknownTool, tc.Name).Error())
	}

	if err := validateArgs(t.Declaration().Parameters, tc.Args); err != nil {
		return nil, nil, "", tool.Failure((&InvalidArgumentsError{Tool: tc.Name, Cause: err}).Error())
	}

	req = t.Input()
	if err := decodeArgs(tc.Args, req); err != nil {
		return nil, nil, "", tool.Failure((&InvalidArgumentsError{Tool: tc.Name, Cause: err}).Error())
	}

	if s, ok := req.(fmt.Stringer); ok {
		display = s.String()
	}
	return t, req, display, tool.Result{}
}

// invoke runs the tool. A panic becomes a Failure; an error is returned
// only for a cancelled context.
func (m *ToolManager) invoke(ctx context.Context, t toolImpl, req any) (result tool.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr := &ToolPanicError{Tool: t.Name(), Value: r}
			logrus.WithField("tool", t.Name()).Errorf("tool panicked: %v", r)
			result, err = tool.Failure(panicErr.Error()), nil
		}
	}()

	result, err = t.Execute(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tool.Result{}, ctxErr
		}
		return tool.Failure(fmt.Sprintf("tool %s failed: %v", t.Name(), err)), nil
	}
	return result, nil
}
