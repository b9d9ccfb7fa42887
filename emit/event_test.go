package emit

import "testing"

func TestEvent_Struct(t *testing.T) {
	t.Run("complete event with all fields", func(t *testing.T) {
		meta := map[string]interface{}{
			"duration_ms": 125,
			"deleted":     false,
		}

		event := Event{
			RunID:  "batch-001",
			Step:   3,
			NodeID: "bgp-router:master:local",
			Msg:    "vertex_event",
			Meta:   meta,
		}

		if event.RunID != "batch-001" {
			t.Errorf("expected RunID = 'batch-001', got %q", event.RunID)
		}
		if event.Step != 3 {
			t.Errorf("expected Step = 3, got %d", event.Step)
		}
		if event.NodeID != "bgp-router:master:local" {
			t.Errorf("expected NodeID = 'bgp-router:master:local', got %q", event.NodeID)
		}
		if event.Msg != "vertex_event" {
			t.Errorf("expected Msg = 'vertex_event', got %q", event.Msg)
		}
		if event.Meta["duration_ms"] != 125 {
			t.Errorf("expected Meta['duration_ms'] = 125, got %v", event.Meta["duration_ms"])
		}
	})

	t.Run("minimal event", func(t *testing.T) {
		event := Event{
			RunID: "batch-002",
			Msg:   "drain_start",
		}

		if event.Step != 0 {
			t.Errorf("expected Step = 0 (zero value), got %d", event.Step)
		}
		if event.NodeID != "" {
			t.Errorf("expected NodeID = \"\" (zero value), got %q", event.NodeID)
		}
		if event.Meta != nil {
			t.Error("expected Meta = nil (zero value)")
		}
	})

	t.Run("event with metadata", func(t *testing.T) {
		event := Event{
			RunID:  "batch-003",
			Step:   1,
			NodeID: "routing-instance:master:red",
			Msg:    "vertex_event",
			Meta: map[string]interface{}{
				"deleted": true,
				"tags":    []string{"routing-instance", "deleted"},
			},
		}

		if event.Meta["deleted"] != true {
			t.Errorf("expected deleted = true, got %v", event.Meta["deleted"])
		}

		tags, ok := event.Meta["tags"].([]string)
		if !ok {
			t.Fatal("expected tags to be []string")
		}
		if len(tags) != 2 {
			t.Errorf("expected 2 tags, got %d", len(tags))
		}
	})

	t.Run("zero value event", func(t *testing.T) {
		var event Event

		if event.RunID != "" {
			t.Errorf("expected zero value RunID, got %q", event.RunID)
		}
		if event.Step != 0 {
			t.Errorf("expected zero value Step, got %d", event.Step)
		}
		if event.NodeID != "" {
			t.Errorf("expected zero value NodeID, got %q", event.NodeID)
		}
		if event.Msg != "" {
			t.Errorf("expected zero value Msg, got %q", event.Msg)
		}
		if event.Meta != nil {
			t.Error("expected zero value Meta to be nil")
		}
	})
}

func TestEvent_UseCases(t *testing.T) {
	t.Run("vertex event", func(t *testing.T) {
		event := Event{
			RunID:  "batch-001",
			Step:   1,
			NodeID: "bgp-peering:master:red-blue",
			Msg:    "vertex_event",
		}

		if event.NodeID != "bgp-peering:master:red-blue" {
			t.Errorf("expected NodeID = 'bgp-peering:master:red-blue', got %q", event.NodeID)
		}
	})

	t.Run("edge event", func(t *testing.T) {
		event := Event{
			RunID:  "batch-001",
			Step:   1,
			NodeID: "instance-target",
			Msg:    "edge_event",
		}

		if event.Msg != "edge_event" {
			t.Errorf("expected Msg = 'edge_event', got %q", event.Msg)
		}
	})

	t.Run("drain_end with error", func(t *testing.T) {
		event := Event{
			RunID: "batch-001",
			Step:  2,
			Msg:   "drain_end",
			Meta: map[string]interface{}{
				"error": "graph store unavailable",
			},
		}

		if event.Meta["error"] != "graph store unavailable" {
			t.Errorf("expected error message, got %v", event.Meta["error"])
		}
	})

	t.Run("drain_end with changelist size", func(t *testing.T) {
		event := Event{
			RunID: "batch-001",
			Step:  5,
			Msg:   "drain_end",
			Meta: map[string]interface{}{
				"duration_ms":     int64(12),
				"changelist_size": 4,
			},
		}

		size, ok := event.Meta["changelist_size"].(int)
		if !ok || size != 4 {
			t.Errorf("expected changelist_size = 4, got %v", size)
		}
	})
}
