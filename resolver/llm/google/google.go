// Package google adapts Gemini to resolver/llm's ChatModel interface.
package google

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nodewalk/depgraph/resolver/llm"
)

// ChatModel implements llm.ChatModel against Google's Gemini API.
type ChatModel struct {
	client googleClient
}

type googleClient interface {
	generateContent(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.ChatOut, error)
}

// NewChatModel returns a ChatModel for modelName; empty uses "gemini-2.5-flash".
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &ChatModel{client: &defaultClient{apiKey: apiKey, modelName: modelName}}
}

// Chat implements llm.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.ChatOut, error) {
	if ctx.Err() != nil {
		return llm.ChatOut{}, ctx.Err()
	}
	return m.client.generateContent(ctx, messages, tools)
}

type defaultClient struct {
	apiKey    string
	modelName string
}

func (c *defaultClient) generateContent(ctx context.Context, messages []llm.Message, tools []llm.ToolSpec) (llm.ChatOut, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return llm.ChatOut{}, fmt.Errorf("google: creating client: %w", err)
	}
	defer func() { _ = client.Close() }()

	genModel := client.GenerativeModel(c.modelName)
	if len(tools) > 0 {
		genModel.Tools = toGeminiTools(tools)
	}

	resp, err := genModel.GenerateContent(ctx, toGeminiParts(messages)...)
	if err != nil {
		return llm.ChatOut{}, fmt.Errorf("google: %w", err)
	}
	return fromGeminiResponse(resp), nil
}

func toGeminiParts(messages []llm.Message) []genai.Part {
	parts := make([]genai.Part, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, genai.Text(msg.Content))
	}
	return parts
}

func toGeminiTools(tools []llm.ToolSpec) []*genai.Tool {
	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, tool := range tools {
		funcs[i] = &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) llm.ChatOut {
	var out llm.ChatOut
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			out.Text += string(p)
		case genai.FunctionCall:
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{Name: p.Name, Input: p.Args})
		}
	}
	return out
}
