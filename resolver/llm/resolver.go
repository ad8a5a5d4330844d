package llm

import (
	"context"
	"fmt"
)

// SourceFetcher returns the raw source text for a node-id.
type SourceFetcher func(id string) (string, error)

const systemPrompt = "You identify module dependencies from source text. " +
	"Call identify_dependencies exactly once with every import, require, " +
	"or dynamic-load specifier you find, in the order they appear."

var identifyDependenciesSpec = ToolSpec{
	Name:        "identify_dependencies",
	Description: "Report the dependency specifiers found in a source file.",
	Schema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"dependencies": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{"dependencies"},
	},
}

// NewResolver returns a graph.GetDependencies (the return type is left
// unnamed to avoid importing the graph package into this leaf) that
// fetches id's source via fetch and asks chat to name its
// dependencies by calling the identify_dependencies tool, which is
// offered as the only tool and requested by the system prompt (tool
// choice is not forced). Used in a resolver.Chain after a static
// resolver such as resolver/fs has failed to parse a file's imports.
func NewResolver(chat ChatModel, fetch SourceFetcher) func(ctx context.Context, id string, callback func([]string, error)) {
	return func(ctx context.Context, id string, callback func([]string, error)) {
		source, err := fetch(id)
		if err != nil {
			callback(nil, fmt.Errorf("llm resolver: %s: %w", id, err))
			return
		}

		out, err := chat.Chat(ctx, []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: source},
		}, []ToolSpec{identifyDependenciesSpec})
		if err != nil {
			callback(nil, fmt.Errorf("llm resolver: %s: %w", id, err))
			return
		}

		deps, err := extractDependencies(out)
		if err != nil {
			callback(nil, fmt.Errorf("llm resolver: %s: %w", id, err))
			return
		}
		callback(deps, nil)
	}
}

func extractDependencies(out ChatOut) ([]string, error) {
	for _, call := range out.ToolCalls {
		if call.Name != identifyDependenciesSpec.Name {
			continue
		}
		raw, ok := call.Input["dependencies"]
		if !ok {
			return nil, fmt.Errorf("llm resolver: tool call missing dependencies field")
		}
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []interface{}:
			deps := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("llm resolver: non-string dependency entry %v", item)
				}
				deps = append(deps, s)
			}
			return deps, nil
		default:
			return nil, fmt.Errorf("llm resolver: unexpected dependencies type %T", raw)
		}
	}
	return nil, fmt.Errorf("llm resolver: no identify_dependencies tool call in response")
}
