package models

import (
	"strings"
	"testing"
)

func TestRequestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr string
	}{
		{"ideas ok", &EventIdeasRequest{EventType: "wedding", Budget: 10000, GuestCount: 100}, ""},
		{"ideas missing type", &EventIdeasRequest{Budget: 10}, "eventType"},
		{"ideas negative budget", &EventIdeasRequest{EventType: "party", Budget: -1}, "budget"},
		{"venues negative guests", &VenueRequest{EventType: "gala", GuestCount: -5}, "guestCount"},
		{"query blank", &QueryRequest{Query: "   "}, "query is required"},
		{"query too long", &QueryRequest{Query: strings.Repeat("a", maxQueryLength+1)}, "too long"},
		{"mood ok", &MoodBoardRequest{EventType: "birthday"}, ""},
		{"budget zero", &BudgetRequest{EventType: "wedding"}, "totalBudget"},
		{"budget negative allocation", &BudgetRequest{
			EventType:         "wedding",
			TotalBudget:       100,
			CurrentAllocation: map[string]float64{"venue": -1},
		}, "venue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBudgetPlanValidatePercentages(t *testing.T) {
	t.Parallel()

	plan := BudgetPlan{
		TotalBudget: 1000,
		Allocations: []Allocation{
			{Category: "venue", Amount: 600, Percentage: 60},
			{Category: "catering", Amount: 500, Percentage: 50},
		},
	}
	if err := plan.Validate(); err == nil {
		t.Fatalf("expected percentages over 100 to fail validation")
	}

	plan.Allocations[1].Percentage = 40.5
	if err := plan.Validate(); err != nil {
		t.Fatalf("expected rounding slack to pass, got %v", err)
	}
}

func TestParseTaskAliases(t *testing.T) {
	t.Parallel()

	for alias, want := range map[string]Task{
		"ideas":      TaskEventIdeas,
		"venues":     TaskVenues,
		"query":      TaskQueryParse,
		"moodboard":  TaskMoodBoard,
		"budget":     TaskBudget,
		"mood_board": TaskMoodBoard,
	} {
		got, err := ParseTask(alias)
		if err != nil {
			t.Fatalf("ParseTask(%q): %v", alias, err)
		}
		if got != want {
			t.Fatalf("ParseTask(%q) = %s, want %s", alias, got, want)
		}
	}

	if _, err := ParseTask("catering"); err == nil {
		t.Fatalf("expected unknown task error")
	}
}
