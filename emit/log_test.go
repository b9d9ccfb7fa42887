package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitter_StructuredOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		event := Event{
			RunID:  "batch-001",
			Step:   1,
			NodeID: "bgp-router:master:local",
			Msg:    "vertex_event",
			Meta: map[string]interface{}{
				"deleted": false,
			},
		}

		emitter.Emit(event)

		output := buf.String()
		if output == "" {
			t.Fatal("expected output, got empty string")
		}

		if !strings.Contains(output, "batch-001") {
			t.Errorf("expected output to contain RunID 'batch-001', got: %s", output)
		}
		if !strings.Contains(output, "bgp-router:master:local") {
			t.Errorf("expected output to contain NodeID 'bgp-router:master:local', got: %s", output)
		}
		if !strings.Contains(output, "vertex_event") {
			t.Errorf("expected output to contain Msg 'vertex_event', got: %s", output)
		}
	})

	t.Run("emits multiple events", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		event1 := Event{RunID: "batch-001", Step: 0, Msg: "drain_start"}
		event2 := Event{
			RunID: "batch-001",
			Step:  0,
			Msg:   "drain_end",
			Meta:  map[string]interface{}{"duration_ms": int64(2), "changelist_size": 3},
		}

		emitter.Emit(event1)
		emitter.Emit(event2)

		output := buf.String()
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if len(lines) < 2 {
			t.Errorf("expected at least 2 lines of output, got %d", len(lines))
		}
	})
}

func TestLogEmitter_JSONFormatting(t *testing.T) {
	t.Run("emits valid JSON when JSON mode enabled", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		event := Event{
			RunID:  "batch-002",
			Step:   2,
			NodeID: "routing-instance:master:red",
			Msg:    "vertex_event",
			Meta: map[string]interface{}{
				"deleted": true,
			},
		}

		emitter.Emit(event)

		output := buf.String()
		if output == "" {
			t.Fatal("expected JSON output, got empty string")
		}

		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(output), &parsed); err != nil {
			t.Fatalf("expected valid JSON, got error: %v\nOutput: %s", err, output)
		}

		if parsed["runID"] != "batch-002" {
			t.Errorf("expected runID 'batch-002', got %v", parsed["runID"])
		}
		if parsed["step"] != float64(2) {
			t.Errorf("expected step 2, got %v", parsed["step"])
		}
		if parsed["nodeID"] != "routing-instance:master:red" {
			t.Errorf("expected nodeID 'routing-instance:master:red', got %v", parsed["nodeID"])
		}
		if parsed["msg"] != "vertex_event" {
			t.Errorf("expected msg 'vertex_event', got %v", parsed["msg"])
		}

		meta, ok := parsed["meta"].(map[string]interface{})
		if !ok {
			t.Fatal("expected meta to be a map")
		}
		if meta["deleted"] != true {
			t.Errorf("expected deleted true, got %v", meta["deleted"])
		}
	})

	t.Run("emits multiple JSON events on separate lines", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		event1 := Event{RunID: "batch-001", Step: 0, Msg: "drain_start"}
		event2 := Event{RunID: "batch-001", Step: 1, Msg: "drain_end"}

		emitter.Emit(event1)
		emitter.Emit(event2)

		output := buf.String()
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if len(lines) != 2 {
			t.Errorf("expected 2 lines of JSON, got %d", len(lines))
		}

		for i, line := range lines {
			var parsed map[string]interface{}
			if err := json.Unmarshal([]byte(line), &parsed); err != nil {
				t.Errorf("line %d: expected valid JSON, got error: %v\nLine: %s", i, err, line)
			}
		}
	})
}

func TestLogEmitter_InterfaceContract(t *testing.T) {
	var buf bytes.Buffer
	var _ Emitter = NewLogEmitter(&buf, false)
}
