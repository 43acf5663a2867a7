package cache

import (
	"strings"
	"testing"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
)

func TestBuildKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := models.EventIdeasRequest{EventType: "wedding", Budget: 10000, GuestCount: 100}
	b := models.EventIdeasRequest{GuestCount: 100, Budget: 10000, EventType: "wedding"}

	ka, err := BuildKey(models.TaskEventIdeas, a)
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	kb, err := BuildKey(models.TaskEventIdeas, b)
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	if ka.String() != kb.String() {
		t.Fatalf("expected equal keys, got %s vs %s", ka, kb)
	}
	if !strings.HasPrefix(ka.String(), "event_ideas:") {
		t.Fatalf("expected task prefix, got %s", ka)
	}
}

func TestBuildKeyIgnoresMapInsertionOrder(t *testing.T) {
	t.Parallel()

	first := map[string]float64{}
	first["venue"] = 4000
	first["catering"] = 3000
	first["music"] = 500

	second := map[string]float64{}
	second["music"] = 500
	second["catering"] = 3000
	second["venue"] = 4000

	k1, err := BuildKey(models.TaskBudget, models.BudgetRequest{EventType: "gala", TotalBudget: 9000, CurrentAllocation: first})
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	k2, err := BuildKey(models.TaskBudget, models.BudgetRequest{EventType: "gala", TotalBudget: 9000, CurrentAllocation: second})
	if err != nil {
		t.Fatalf("BuildKey: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("expected identical keys, got %s vs %s", k1, k2)
	}

	// Generic maps with the same content in a different literal order too.
	g1, _ := BuildKey(models.TaskQueryParse, map[string]any{"a": 1, "b": "x"})
	g2, _ := BuildKey(models.TaskQueryParse, map[string]any{"b": "x", "a": 1})
	if g1 != g2 {
		t.Fatalf("expected identical keys for generic maps")
	}
}

func TestBuildKeyNamespacesByTask(t *testing.T) {
	t.Parallel()

	req := models.EventIdeasRequest{EventType: "wedding"}
	k1, _ := BuildKey(models.TaskEventIdeas, req)
	k2, _ := BuildKey(models.TaskVenues, req)
	if k1.Hash == k2.Hash {
		t.Fatalf("expected different hashes across tasks")
	}

	k3, _ := BuildKey(models.TaskEventIdeas, models.EventIdeasRequest{EventType: "wedding", GuestCount: 101})
	if k1 == k3 {
		t.Fatalf("expected different keys for different field values")
	}
}

func TestBuildKeyRejectsUnmarshalable(t *testing.T) {
	t.Parallel()

	if _, err := BuildKey(models.TaskBudget, map[string]any{"f": func() {}}); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestParseKeyBasic(t *testing.T) {
	t.Parallel()

	parts, ok := parseKey("venues:abc123")
	if !ok || parts.task != "venues" || parts.hash != "abc123" {
		t.Fatalf("unexpected parse: %+v ok=%v", parts, ok)
	}
	if _, ok := parseKey("garbage"); ok {
		t.Fatalf("expected parse failure")
	}
}
