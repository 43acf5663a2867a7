// Package dispatch routes typed task requests through the response cache,
// the configured provider chain and finally a canned result. Dispatch never
// returns an error: every operation yields a structured Result whose Source
// says where the answer came from.
package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/midunthangavel/fixmyevent-sub001/internal/cache"
	"github.com/midunthangavel/fixmyevent-sub001/internal/metrics"
	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/internal/parse"
	"github.com/midunthangavel/fixmyevent-sub001/internal/prompt"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
	"github.com/midunthangavel/fixmyevent-sub001/pkg/logging/logging"
)

type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Result is a dispatch answer with its provenance. Provider is empty for
// canned results.
type Result[T any] struct {
	Value      T           `json:"data"`
	Source     Source      `json:"source"`
	Provider   provider.ID `json:"provider,omitempty"`
	DispatchID string      `json:"dispatch_id"`
}

type Dispatcher struct {
	cfg       Config
	providers provider.Registry
	cache     cache.Cache
	logger    *zap.Logger
	group     singleflight.Group
}

// New builds a Dispatcher. A nil cache disables caching regardless of
// cfg.CacheEnabled.
func New(cfg Config, providers provider.Registry, c cache.Cache, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if providers == nil {
		providers = provider.Registry{}
	}
	return &Dispatcher{
		cfg:       cfg.WithDefaults(),
		providers: providers,
		cache:     c,
		logger:    logger.Named("dispatch"),
	}
}

func (d *Dispatcher) GenerateEventIdeas(ctx context.Context, req models.EventIdeasRequest) Result[models.EventIdeas] {
	return run(ctx, d, eventIdeasTask, req)
}

func (d *Dispatcher) RecommendVenues(ctx context.Context, req models.VenueRequest) Result[models.VenueRecommendations] {
	return run(ctx, d, venuesTask, req)
}

func (d *Dispatcher) ParseQuery(ctx context.Context, req models.QueryRequest) Result[models.ParsedQuery] {
	return run(ctx, d, queryTask, req)
}

func (d *Dispatcher) GenerateMoodBoard(ctx context.Context, req models.MoodBoardRequest) Result[models.MoodBoard] {
	return run(ctx, d, moodBoardTask, req)
}

func (d *Dispatcher) OptimizeBudget(ctx context.Context, req models.BudgetRequest) Result[models.BudgetPlan] {
	return run(ctx, d, budgetTask, req)
}

// ClearCache drops every cached answer.
func (d *Dispatcher) ClearCache(ctx context.Context) error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Clear(ctx)
}

func (d *Dispatcher) cacheEnabled() bool {
	return d.cfg.CacheEnabled && d.cache != nil
}

// taskSpec binds a task to its prompt builder, strict decoder and canned
// result.
type taskSpec[Req, T any] struct {
	task     models.Task
	prompt   func(Req) string
	decode   func(string) (T, error)
	fallback func(Req) T
}

var (
	eventIdeasTask = taskSpec[models.EventIdeasRequest, models.EventIdeas]{
		task:     models.TaskEventIdeas,
		prompt:   prompt.EventIdeas,
		decode:   parse.Decode[models.EventIdeas, *models.EventIdeas],
		fallback: parse.FallbackEventIdeas,
	}
	venuesTask = taskSpec[models.VenueRequest, models.VenueRecommendations]{
		task:     models.TaskVenues,
		prompt:   prompt.Venues,
		decode:   parse.Decode[models.VenueRecommendations, *models.VenueRecommendations],
		fallback: parse.FallbackVenues,
	}
	queryTask = taskSpec[models.QueryRequest, models.ParsedQuery]{
		task:     models.TaskQueryParse,
		prompt:   prompt.Query,
		decode:   parse.Decode[models.ParsedQuery, *models.ParsedQuery],
		fallback: parse.FallbackParsedQuery,
	}
	moodBoardTask = taskSpec[models.MoodBoardRequest, models.MoodBoard]{
		task:     models.TaskMoodBoard,
		prompt:   prompt.MoodBoard,
		decode:   parse.Decode[models.MoodBoard, *models.MoodBoard],
		fallback: parse.FallbackMoodBoard,
	}
	budgetTask = taskSpec[models.BudgetRequest, models.BudgetPlan]{
		task:     models.TaskBudget,
		prompt:   prompt.Budget,
		decode:   parse.Decode[models.BudgetPlan, *models.BudgetPlan],
		fallback: parse.FallbackBudgetPlan,
	}
)

// cacheEntry is what gets stored: the answer plus the provider that gave it.
type cacheEntry[T any] struct {
	Provider provider.ID `json:"provider"`
	Value    T           `json:"value"`
}

// resolved is the outcome of one provider chain, shared between
// singleflight callers.
type resolved[T any] struct {
	value    T
	provider provider.ID
	ok       bool
}

func run[Req, T any](ctx context.Context, d *Dispatcher, spec taskSpec[Req, T], req Req) Result[T] {
	start := time.Now()
	dispatchID := uuid.NewString()
	logger := logging.Scoped(ctx, d.logger).With(
		zap.String("task", string(spec.task)),
		zap.String("dispatch_id", dispatchID),
	)

	finish := func(res Result[T]) Result[T] {
		res.DispatchID = dispatchID
		metrics.DispatchTotal.WithLabelValues(string(spec.task), string(res.Source)).Inc()
		logger.Info("dispatch_complete",
			zap.String("source", string(res.Source)),
			zap.String("provider", string(res.Provider)),
			zap.Duration("duration", time.Since(start)),
		)
		return res
	}

	key, err := cache.BuildKey(spec.task, req)
	keyed := err == nil
	if !keyed {
		logger.Warn("cache key build failed, dispatching uncached", zap.Error(err))
	}

	if keyed && d.cacheEnabled() {
		if entry, ok := lookup[T](ctx, d, key.String(), logger); ok {
			return finish(Result[T]{Value: entry.Value, Source: SourceCache, Provider: entry.Provider})
		}
	}

	resolve := func(ctx context.Context) resolved[T] {
		out := resolveChain(ctx, d, spec, req, logger)
		if out.ok && keyed && d.cacheEnabled() {
			store(ctx, d, key.String(), d.cfg.ttl(spec.task), cacheEntry[T]{Provider: out.provider, Value: out.value}, logger)
		}
		return out
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("caller gone before dispatch, using canned result", zap.Error(err))
		return finish(Result[T]{Value: spec.fallback(req), Source: SourceFallback})
	}

	var out resolved[T]
	if keyed {
		// The shared chain ignores the leader's cancellation; each caller
		// stops waiting on its own ctx instead.
		ch := d.group.DoChan(key.String(), func() (any, error) {
			shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.chainTimeout(spec.task))
			defer cancel()
			return resolve(shared), nil
		})
		select {
		case r := <-ch:
			out = r.Val.(resolved[T])
			if r.Shared {
				logger.Debug("dispatch shared with concurrent caller")
			}
		case <-ctx.Done():
			logger.Warn("caller gone while waiting on providers, using canned result", zap.Error(ctx.Err()))
		}
	} else {
		out = resolve(ctx)
	}

	if out.ok {
		return finish(Result[T]{Value: out.value, Source: SourceProvider, Provider: out.provider})
	}
	// Canned answers are never cached.
	return finish(Result[T]{Value: spec.fallback(req), Source: SourceFallback})
}

func resolveChain[Req, T any](ctx context.Context, d *Dispatcher, spec taskSpec[Req, T], req Req, logger *zap.Logger) resolved[T] {
	text := spec.prompt(req)

	ids := d.cfg.chain(spec.task)
	steps := make([]step[T], 0, len(ids))
	for _, id := range ids {
		id := id
		steps = append(steps, step[T]{
			provider: id,
			run: func(ctx context.Context) (T, error) {
				return callProvider(ctx, d, id, text, spec.decode, logger)
			},
		})
	}

	v, id, err := firstSuccess(ctx, steps)
	if err != nil {
		logger.Warn("provider chain exhausted, using canned result", zap.Error(err))
		return resolved[T]{}
	}
	return resolved[T]{value: v, provider: id, ok: true}
}

// callProvider runs one provider under the per-call timeout and decodes its
// output. Malformed output fails the step like a transport error would.
func callProvider[T any](
	ctx context.Context,
	d *Dispatcher,
	id provider.ID,
	text string,
	decode func(string) (T, error),
	logger *zap.Logger,
) (T, error) {
	var zero T
	logger = logger.With(zap.String("provider", string(id)))

	p, ok := d.providers[id]
	if !ok {
		metrics.ProviderCallsTotal.WithLabelValues(string(id), "missing").Inc()
		logger.Warn("provider step failed", zap.Error(errProviderNotFound))
		return zero, errProviderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	raw, err := p.Complete(ctx, text)
	metrics.ProviderLatencySeconds.WithLabelValues(string(id)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(string(id), provider.Outcome(err)).Inc()
		logger.Warn("provider step failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return zero, err
	}

	v, err := decode(raw)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(string(id), "malformed").Inc()
		logger.Warn("provider returned unusable output",
			zap.Error(err),
			zap.Int("response_bytes", len(raw)),
		)
		return zero, err
	}

	metrics.ProviderCallsTotal.WithLabelValues(string(id), "ok").Inc()
	return v, nil
}

// lookup treats cache errors and undecodable entries as misses.
func lookup[T any](ctx context.Context, d *Dispatcher, key string, logger *zap.Logger) (cacheEntry[T], bool) {
	var entry cacheEntry[T]

	raw, ok, err := d.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
		return entry, false
	}
	if !ok {
		return entry, false
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.Warn("cached entry undecodable, treating as miss", zap.Error(err))
		return entry, false
	}
	return entry, true
}

func store[T any](ctx context.Context, d *Dispatcher, key string, ttl time.Duration, entry cacheEntry[T], logger *zap.Logger) {
	raw, err := json.Marshal(entry)
	if err != nil {
		logger.Warn("cache entry marshal failed", zap.Error(err))
		return
	}
	if err := d.cache.Set(ctx, key, raw, ttl); err != nil {
		logger.Warn("cache store failed", zap.Error(err))
	}
}
