package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/midunthangavel/fixmyevent-sub001/internal/dispatch"
	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/pkg/logging/logging"
)

// Planner is the dispatch surface the HTTP layer needs.
type Planner interface {
	GenerateEventIdeas(ctx context.Context, req models.EventIdeasRequest) dispatch.Result[models.EventIdeas]
	RecommendVenues(ctx context.Context, req models.VenueRequest) dispatch.Result[models.VenueRecommendations]
	ParseQuery(ctx context.Context, req models.QueryRequest) dispatch.Result[models.ParsedQuery]
	GenerateMoodBoard(ctx context.Context, req models.MoodBoardRequest) dispatch.Result[models.MoodBoard]
	OptimizeBudget(ctx context.Context, req models.BudgetRequest) dispatch.Result[models.BudgetPlan]
	ClearCache(ctx context.Context) error
}

// SuggestHandler holds dependencies for the /v1 suggestion endpoints.
type SuggestHandler struct {
	Planner Planner
}

func NewSuggestHandler(p Planner) *SuggestHandler {
	return &SuggestHandler{Planner: p}
}

// EventIdeas handles POST /v1/ideas.
func (h *SuggestHandler) EventIdeas(w http.ResponseWriter, r *http.Request) {
	handle(w, r, h.Planner.GenerateEventIdeas)
}

// Venues handles POST /v1/venues.
func (h *SuggestHandler) Venues(w http.ResponseWriter, r *http.Request) {
	handle(w, r, h.Planner.RecommendVenues)
}

// Query handles POST /v1/query.
func (h *SuggestHandler) Query(w http.ResponseWriter, r *http.Request) {
	handle(w, r, h.Planner.ParseQuery)
}

// MoodBoard handles POST /v1/moodboard.
func (h *SuggestHandler) MoodBoard(w http.ResponseWriter, r *http.Request) {
	handle(w, r, h.Planner.GenerateMoodBoard)
}

// Budget handles POST /v1/budget.
func (h *SuggestHandler) Budget(w http.ResponseWriter, r *http.Request) {
	handle(w, r, h.Planner.OptimizeBudget)
}

// ClearCache handles DELETE /v1/cache.
func (h *SuggestHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	logger := logging.L(r.Context())
	if err := h.Planner.ClearCache(r.Context()); err != nil {
		logger.Error("cache_clear_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache_clear_failed", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type validatable[T any] interface {
	*T
	Validate() error
}

// handle decodes and validates the request body, then dispatches. Dispatch
// itself cannot fail, so only client errors produce a non-200.
func handle[Req any, PReq validatable[Req], T any](
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, Req) dispatch.Result[T],
) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "")
			return
		}
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := PReq(&req).Validate(); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res := op(ctx, req)

	logger.Info("suggestion_served",
		zap.String("source", string(res.Source)),
		zap.String("provider", string(res.Provider)),
		zap.String("dispatch_id", res.DispatchID),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, res)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
