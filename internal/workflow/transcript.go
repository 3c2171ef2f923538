package workflow

import "github.com/Cyclone1070/aiagent/internal/provider"

// Transcript is the ordered conversation of one run.
// It only grows: there is no way to remove or reorder messages.
type Transcript struct {
	messages []provider.Message
}

// NewTranscript seeds a transcript with a single user message.
func NewTranscript(prompt string) *Transcript {
	return &Transcript{
		messages: []provider.Message{{Role: provider.RoleUser, Content: prompt}},
	}
}

// Append adds messages to the end of the transcript.
func (t *Transcript) Append(msgs ...provider.Message) {
	t.messages = append(t.messages, msgs...)
}

// Messages returns a copy of the messages in order.
func (t *Transcript) Messages() []provider.Message {
	out := make([]provider.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}
