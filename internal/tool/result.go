package tool

// Result is the outcome of one tool invocation: either a Success carrying a
// payload or a Failure carrying a message. Both are returned to the model.
type Result struct {
	text   string
	failed bool
}

// Success wraps a payload returned to the model under "result".
func Success(payload string) Result {
	return Result{text: payload}
}

// Failure wraps a message returned to the model under "error".
func Failure(message string) Result {
	return Result{text: message, failed: true}
}

// Failed reports whether the result is a Failure.
func (r Result) Failed() bool { return r.failed }

// Text returns the payload or the failure message.
func (r Result) Text() string { return r.text }

// Envelope returns the wire form {"result": payload} or {"error": message}.
func (r Result) Envelope() map[string]any {
	if r.failed {
		return map[string]any{"error": r.text}
	}
	return map[string]any{"result": r.text}
}
