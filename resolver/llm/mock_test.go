package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockChatModel_RepeatsLastResponseOnceExhausted(t *testing.T) {
	m := &MockChatModel{Responses: []ChatOut{{Text: "first"}, {Text: "second"}}}

	out1, _ := m.Chat(context.Background(), nil, nil)
	out2, _ := m.Chat(context.Background(), nil, nil)
	out3, _ := m.Chat(context.Background(), nil, nil)

	if out1.Text != "first" || out2.Text != "second" || out3.Text != "second" {
		t.Errorf("got %q, %q, %q, want first, second, second (repeat last)", out1.Text, out2.Text, out3.Text)
	}
}

func TestMockChatModel_ReturnsConfiguredError(t *testing.T) {
	boom := errors.New("boom")
	m := &MockChatModel{Err: boom}

	_, err := m.Chat(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Chat() error = %v, want %v", err, boom)
	}
}

func TestMockChatModel_RecordsCalls(t *testing.T) {
	m := &MockChatModel{}
	messages := []Message{{Role: RoleUser, Content: "hi"}}
	tools := []ToolSpec{{Name: "t"}}

	_, _ = m.Chat(context.Background(), messages, tools)

	if len(m.Calls) != 1 {
		t.Fatalf("Calls = %v, want 1 entry", m.Calls)
	}
	if m.Calls[0].Messages[0].Content != "hi" || m.Calls[0].Tools[0].Name != "t" {
		t.Errorf("recorded call = %+v", m.Calls[0])
	}
}

func TestMockChatModel_RejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &MockChatModel{Responses: []ChatOut{{Text: "unused"}}}

	if _, err := m.Chat(ctx, nil, nil); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
