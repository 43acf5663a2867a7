package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/midunthangavel/fixmyevent-sub001/internal/dispatch"
	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/internal/parse"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

type mockPlanner struct {
	calls     int
	lastIdeas models.EventIdeasRequest
	lastQuery models.QueryRequest
	clearErr  error
	cleared   int
}

func (m *mockPlanner) GenerateEventIdeas(_ context.Context, req models.EventIdeasRequest) dispatch.Result[models.EventIdeas] {
	m.calls++
	m.lastIdeas = req
	return dispatch.Result[models.EventIdeas]{
		Value:      models.EventIdeas{Ideas: []models.EventIdea{{Title: "Starlit Garden", EstimatedCost: 9000}}},
		Source:     dispatch.SourceProvider,
		Provider:   provider.OpenAI,
		DispatchID: "d-1",
	}
}

func (m *mockPlanner) RecommendVenues(_ context.Context, req models.VenueRequest) dispatch.Result[models.VenueRecommendations] {
	m.calls++
	return dispatch.Result[models.VenueRecommendations]{Value: parse.FallbackVenues(req), Source: dispatch.SourceFallback, DispatchID: "d-2"}
}

func (m *mockPlanner) ParseQuery(_ context.Context, req models.QueryRequest) dispatch.Result[models.ParsedQuery] {
	m.calls++
	m.lastQuery = req
	return dispatch.Result[models.ParsedQuery]{Value: models.ParsedQuery{Intent: "search"}, Source: dispatch.SourceCache, Provider: provider.Local}
}

func (m *mockPlanner) GenerateMoodBoard(_ context.Context, req models.MoodBoardRequest) dispatch.Result[models.MoodBoard] {
	m.calls++
	return dispatch.Result[models.MoodBoard]{Value: parse.FallbackMoodBoard(req), Source: dispatch.SourceFallback}
}

func (m *mockPlanner) OptimizeBudget(_ context.Context, req models.BudgetRequest) dispatch.Result[models.BudgetPlan] {
	m.calls++
	return dispatch.Result[models.BudgetPlan]{Value: parse.FallbackBudgetPlan(req), Source: dispatch.SourceFallback}
}

func (m *mockPlanner) ClearCache(context.Context) error {
	m.cleared++
	return m.clearErr
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Source     string          `json:"source"`
	Provider   string          `json:"provider"`
	DispatchID string          `json:"dispatch_id"`
}

func TestEventIdeasHandler(t *testing.T) {
	planner := &mockPlanner{}
	h := NewSuggestHandler(planner)

	req := httptest.NewRequest(http.MethodPost, "/v1/ideas", strings.NewReader(`{"eventType":"wedding","budget":10000,"guestCount":100}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EventIdeas(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var resp envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Source != "provider" || resp.Provider != "openai" || resp.DispatchID != "d-1" {
		t.Fatalf("unexpected provenance: %#v", resp)
	}

	var ideas models.EventIdeas
	if err := json.Unmarshal(resp.Data, &ideas); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if ideas.Ideas[0].Title != "Starlit Garden" {
		t.Fatalf("unexpected data: %#v", ideas)
	}

	if planner.lastIdeas.EventType != "wedding" || planner.lastIdeas.GuestCount != 100 || planner.lastIdeas.Budget != 10000 {
		t.Fatalf("request not decoded: %#v", planner.lastIdeas)
	}
}

func TestFallbackResultHasNoProvider(t *testing.T) {
	h := NewSuggestHandler(&mockPlanner{})

	req := httptest.NewRequest(http.MethodPost, "/v1/budget", strings.NewReader(`{"eventType":"gala","totalBudget":5000}`))
	rr := httptest.NewRecorder()
	h.Budget(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if raw["source"] != "fallback" {
		t.Fatalf("unexpected source: %v", raw["source"])
	}
	if _, ok := raw["provider"]; ok {
		t.Fatalf("provider should be omitted for canned results: %s", rr.Body.String())
	}
}

func TestHandlersRejectBadRequests(t *testing.T) {
	planner := &mockPlanner{}
	h := NewSuggestHandler(planner)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		code    string
	}{
		{"ideas invalid json", h.EventIdeas, `{"eventType":`, "invalid_json"},
		{"ideas missing type", h.EventIdeas, `{"budget":100}`, "invalid_request"},
		{"venues negative guests", h.Venues, `{"eventType":"x","guestCount":-1}`, "invalid_request"},
		{"query empty", h.Query, `{"query":"   "}`, "invalid_request"},
		{"moodboard wrong type", h.MoodBoard, `{"eventType":5}`, "invalid_json"},
		{"budget zero", h.Budget, `{"eventType":"x","totalBudget":0}`, "invalid_request"},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		tt.handler(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.name, rr.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode error body: %v", tt.name, err)
		}
		if resp.Error != tt.code {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.code, resp.Error)
		}
	}

	if planner.calls != 0 {
		t.Fatalf("planner should not be called for bad requests, got %d calls", planner.calls)
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := NewSuggestHandler(&mockPlanner{})

	body := `{"query":"` + strings.Repeat("a", 1024) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))
	rr := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rr, req.Body, 64)

	h.Query(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestClearCacheHandler(t *testing.T) {
	planner := &mockPlanner{}
	h := NewSuggestHandler(planner)

	rr := httptest.NewRecorder()
	h.ClearCache(rr, httptest.NewRequest(http.MethodDelete, "/v1/cache", nil))
	if rr.Code != http.StatusNoContent || planner.cleared != 1 {
		t.Fatalf("expected 204 and one clear, got %d/%d", rr.Code, planner.cleared)
	}

	planner.clearErr = errors.New("redis down")
	rr = httptest.NewRecorder()
	h.ClearCache(rr, httptest.NewRequest(http.MethodDelete, "/v1/cache", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
