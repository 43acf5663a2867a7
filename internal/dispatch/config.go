package dispatch

import (
	"fmt"
	"time"

	"github.com/midunthangavel/fixmyevent-sub001/internal/models"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

// DefaultCallTimeout bounds a single provider step.
const DefaultCallTimeout = 30 * time.Second

// DefaultTTLs reflects how quickly each task's answer goes stale.
func DefaultTTLs() map[models.Task]time.Duration {
	return map[models.Task]time.Duration{
		models.TaskEventIdeas: 30 * time.Minute,
		models.TaskVenues:     time.Hour,
		models.TaskQueryParse: 2 * time.Hour,
		models.TaskMoodBoard:  2 * time.Hour,
		models.TaskBudget:     24 * time.Hour,
	}
}

// Route is the provider chain for one task.
type Route struct {
	Primary  provider.ID `yaml:"primary"`
	Fallback provider.ID `yaml:"fallback"`
}

type Config struct {
	Primary  provider.ID `yaml:"primary"`
	Fallback provider.ID `yaml:"fallback"`

	// Routes overrides Primary/Fallback per task. Empty fields inherit. Keys
	// may use a task's short alias.
	Routes map[models.Task]Route `yaml:"routes"`

	CacheEnabled bool `yaml:"cache_enabled"`
	// TTLs overrides DefaultTTLs per task, keyed like Routes.
	TTLs map[models.Task]time.Duration `yaml:"ttls"`

	CallTimeout time.Duration `yaml:"call_timeout"`
}

func (c Config) WithDefaults() Config {
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	ttls := DefaultTTLs()
	for task, ttl := range canonical(c.TTLs) {
		ttls[task] = ttl
	}
	c.TTLs = ttls
	if c.Routes != nil {
		c.Routes = canonical(c.Routes)
	}
	return c
}

// canonical rekeys m by canonical task name. Unknown names are dropped;
// Validate reports them.
func canonical[V any](m map[models.Task]V) map[models.Task]V {
	out := make(map[models.Task]V, len(m))
	for name, v := range m {
		if task, err := models.ParseTask(string(name)); err == nil {
			out[task] = v
		}
	}
	return out
}

// checkTaskKeys rejects unknown task names and a task named twice through
// an alias.
func checkTaskKeys[V any](what string, m map[models.Task]V) error {
	seen := make(map[models.Task]models.Task, len(m))
	for name := range m {
		task, err := models.ParseTask(string(name))
		if err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		if prev, dup := seen[task]; dup {
			return fmt.Errorf("%s: %q and %q name the same task", what, prev, name)
		}
		seen[task] = name
	}
	return nil
}

// Validate checks that every named provider exists and every TTL is usable.
func (c Config) Validate() error {
	check := func(what string, id provider.ID) error {
		if id == "" {
			return nil
		}
		if _, err := provider.ParseID(string(id)); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		return nil
	}

	if c.Primary == "" {
		return fmt.Errorf("primary provider is required")
	}
	if err := check("primary", c.Primary); err != nil {
		return err
	}
	if err := check("fallback", c.Fallback); err != nil {
		return err
	}
	if err := checkTaskKeys("routes", c.Routes); err != nil {
		return err
	}
	if err := checkTaskKeys("ttls", c.TTLs); err != nil {
		return err
	}
	for task, r := range c.Routes {
		if err := check(fmt.Sprintf("routes.%s.primary", task), r.Primary); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("routes.%s.fallback", task), r.Fallback); err != nil {
			return err
		}
	}
	for task, ttl := range c.TTLs {
		if ttl <= 0 {
			return fmt.Errorf("ttls.%s must be positive", task)
		}
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("call_timeout must not be negative")
	}
	return nil
}

// chain returns the distinct providers to try for task, in order.
func (c Config) chain(task models.Task) []provider.ID {
	primary, fallback := c.Primary, c.Fallback
	if r, ok := c.Routes[task]; ok {
		if r.Primary != "" {
			primary = r.Primary
		}
		if r.Fallback != "" {
			fallback = r.Fallback
		}
	}

	ids := make([]provider.ID, 0, 2)
	if primary != "" {
		ids = append(ids, primary)
	}
	if fallback != "" && fallback != primary {
		ids = append(ids, fallback)
	}
	return ids
}

// chainTimeout bounds a whole provider chain for task.
func (c Config) chainTimeout(task models.Task) time.Duration {
	n := len(c.chain(task))
	if n == 0 {
		n = 1
	}
	return time.Duration(n) * c.CallTimeout
}

func (c Config) ttl(task models.Task) time.Duration {
	if ttl, ok := c.TTLs[task]; ok && ttl > 0 {
		return ttl
	}
	return DefaultTTLs()[task]
}
