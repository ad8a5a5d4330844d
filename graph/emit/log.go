// Package emit provides the event bus for the dependency graph engine.
package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter implements Emitter by writing structured log output to a
// writer.
//
// Supports two output modes:
//   - Text mode (default): human-readable key=value format.
//   - JSON mode: one JSON object per line (JSONL).
//
// Example text output:
//
//	[traced] node=./src/app.js deps=[lodash ./src/util.js]
//	[pruned] node=./src/old.js
//	[complete]
//
// Example JSON output:
//
//	{"kind":"traced","node":"./src/app.js","dependencies":["lodash","./src/util.js"]}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter. A nil writer defaults to os.Stdout.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes a single event to the configured writer.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

func (l *LogEmitter) emitJSON(event Event) {
	payload := struct {
		Kind         string   `json:"kind"`
		Node         string   `json:"node,omitempty"`
		Dependencies []string `json:"dependencies,omitempty"`
		Err          string   `json:"error,omitempty"`
	}{
		Kind:         event.Kind.String(),
		Node:         event.Node,
		Dependencies: event.Dependencies,
	}
	if event.Err != nil {
		payload.Err = event.Err.Error()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// Fallback to an inline error rather than dropping the event silently.
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s]", event.Kind)
	if event.Node != "" {
		_, _ = fmt.Fprintf(l.writer, " node=%s", event.Node)
	}
	if len(event.Dependencies) > 0 {
		_, _ = fmt.Fprintf(l.writer, " deps=%v", event.Dependencies)
	}
	if event.Err != nil {
		_, _ = fmt.Fprintf(l.writer, " err=%v", event.Err)
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}

// EmitBatch writes every event in order, in a single pass.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes synchronously with no internal
// buffering. Wrap writer in a bufio.Writer and flush it directly if
// buffering is desired.
func (l *LogEmitter) Flush(_ context.Context) error {
	return nil
}
