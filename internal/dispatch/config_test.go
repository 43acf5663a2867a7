package dispatch

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

func TestWithDefaultsKeepsOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{TTLs: map[models.Task]time.Duration{models.TaskBudget: time.Hour}}.WithDefaults()

	if cfg.CallTimeout != DefaultCallTimeout {
		t.Fatalf("expected default call timeout, got %v", cfg.CallTimeout)
	}
	if cfg.ttl(models.TaskBudget) != time.Hour {
		t.Fatalf("override lost: %v", cfg.ttl(models.TaskBudget))
	}
	if cfg.ttl(models.TaskEventIdeas) != 30*time.Minute || cfg.ttl(models.TaskMoodBoard) != 2*time.Hour {
		t.Fatalf("defaults missing: %v", cfg.TTLs)
	}
}

func TestWithDefaultsResolvesTaskAliases(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Primary:  provider.OpenAI,
		Fallback: provider.Local,
		TTLs:     map[models.Task]time.Duration{"ideas": time.Minute, "moodboard": 3 * time.Hour},
		Routes:   map[models.Task]Route{"query": {Primary: provider.HuggingFace}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("aliases should validate: %v", err)
	}

	cfg = cfg.WithDefaults()
	if got := cfg.ttl(models.TaskEventIdeas); got != time.Minute {
		t.Fatalf("ideas alias ignored: ttl = %v", got)
	}
	if got := cfg.ttl(models.TaskMoodBoard); got != 3*time.Hour {
		t.Fatalf("moodboard alias ignored: ttl = %v", got)
	}
	want := []provider.ID{provider.HuggingFace, provider.Local}
	if got := cfg.chain(models.TaskQueryParse); !reflect.DeepEqual(got, want) {
		t.Fatalf("query alias route ignored: chain = %v, want %v", got, want)
	}
	if _, ok := cfg.TTLs["ideas"]; ok {
		t.Fatalf("alias key should be rewritten: %v", cfg.TTLs)
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Primary:  provider.Local,
		Fallback: provider.OpenAI,
		Routes: map[models.Task]Route{
			models.TaskQueryParse: {Primary: provider.HuggingFace},
			models.TaskBudget:     {Primary: provider.OpenAI},
		},
	}

	tests := map[models.Task][]provider.ID{
		models.TaskEventIdeas: {provider.Local, provider.OpenAI},
		models.TaskQueryParse: {provider.HuggingFace, provider.OpenAI},
		models.TaskBudget:     {provider.OpenAI},
	}
	for task, want := range tests {
		if got := cfg.chain(task); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: chain = %v, want %v", task, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Primary: provider.Local, Fallback: provider.OpenAI}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	bad := []Config{
		{},
		{Primary: "gemini"},
		{Primary: provider.Local, Fallback: "gemini"},
		{Primary: provider.Local, Routes: map[models.Task]Route{"weather": {Primary: provider.Local}}},
		{Primary: provider.Local, Routes: map[models.Task]Route{models.TaskBudget: {Fallback: "x"}}},
		{Primary: provider.Local, TTLs: map[models.Task]time.Duration{models.TaskBudget: 0}},
		{Primary: provider.Local, TTLs: map[models.Task]time.Duration{"ideas": time.Minute, models.TaskEventIdeas: time.Hour}},
		{Primary: provider.Local, Routes: map[models.Task]Route{"query": {}, models.TaskQueryParse: {}}},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestFirstSuccess(t *testing.T) {
	t.Parallel()

	var order []provider.ID
	mk := func(id provider.ID, v int, err error) step[int] {
		return step[int]{provider: id, run: func(context.Context) (int, error) {
			order = append(order, id)
			return v, err
		}}
	}

	v, id, err := firstSuccess(context.Background(), []step[int]{
		mk(provider.Local, 0, errBoom),
		mk(provider.OpenAI, 7, nil),
		mk(provider.Anthropic, 9, nil),
	})
	if err != nil || v != 7 || id != provider.OpenAI {
		t.Fatalf("unexpected result: %d %s %v", v, id, err)
	}
	if !reflect.DeepEqual(order, []provider.ID{provider.Local, provider.OpenAI}) {
		t.Fatalf("unexpected order: %v", order)
	}

	_, _, err = firstSuccess(context.Background(), []step[int]{mk(provider.Local, 0, errBoom)})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected joined step errors, got %v", err)
	}

	_, _, err = firstSuccess[int](context.Background(), nil)
	if !errors.Is(err, errNoProviders) {
		t.Fatalf("expected errNoProviders, got %v", err)
	}
}
