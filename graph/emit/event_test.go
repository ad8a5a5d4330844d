package emit

import (
	"errors"
	"testing"
)

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		EventTraced:   "traced",
		EventPruned:   "pruned",
		EventError:    "error",
		EventComplete: "complete",
		Kind(99):      "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestEvent_Fields(t *testing.T) {
	e := Event{
		Kind:         EventTraced,
		Node:         "./src/app.js",
		Dependencies: []string{"lodash", "./src/util.js"},
	}
	if e.Kind != EventTraced {
		t.Errorf("Kind = %v, want EventTraced", e.Kind)
	}
	if len(e.Dependencies) != 2 {
		t.Errorf("Dependencies = %v, want 2 entries", e.Dependencies)
	}

	errEvent := Event{Kind: EventError, Node: "x", Err: errors.New("boom")}
	if errEvent.Err == nil || errEvent.Err.Error() != "boom" {
		t.Errorf("Err = %v, want boom", errEvent.Err)
	}

	complete := Event{Kind: EventComplete}
	if complete.Node != "" || complete.Dependencies != nil || complete.Err != nil {
		t.Errorf("EventComplete should carry no payload, got %+v", complete)
	}
}
