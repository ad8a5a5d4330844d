package llm

import (
	"context"
	"sync"
)

// MockChatModel is a scripted ChatModel for tests: it returns each of
// Responses in order (repeating the last once exhausted), or Err if
// set, and records every call it received.
type MockChatModel struct {
	Responses []ChatOut
	Err       error
	Calls     []MockCall

	mu    sync.Mutex
	index int
}

// MockCall records a single Chat invocation.
type MockCall struct {
	Messages []Message
	Tools    []ToolSpec
}

// Chat implements ChatModel.
func (m *MockChatModel) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error) {
	if ctx.Err() != nil {
		return ChatOut{}, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Messages: messages, Tools: tools})

	if m.Err != nil {
		return ChatOut{}, m.Err
	}
	if len(m.Responses) == 0 {
		return ChatOut{}, nil
	}

	idx := m.index
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	} else {
		m.index++
	}
	return m.Responses[idx], nil
}
