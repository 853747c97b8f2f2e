package agent

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"dilemma/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Constructor builds a fresh strategy instance.
type Constructor func() game.Strategy

// Seeded strategies own a random generator that the registry can seed
// deterministically.
type Seeded interface {
	Seed(seed uint64)
}

// aliases lists the alternate spellings registered with each canonical name.
var aliases = map[string][]string{
	"random":          {"rand", "rnd"},
	"alwayscooperate": {"always_cooperate", "cooperate", "coop", "ac"},
	"alwaysdefect":    {"always_defect", "defect", "def", "ad"},
	"fiftyfifty":      {"fifty_fifty", "5050", "ff"},
	"titfortat":       {"tit_for_tat", "tft", "toothfortooth"},
	"adaptive":        {"adaptive_strategy", "adapt"},
}

type entry struct {
	canonical string
	create    Constructor
}

// Registry resolves strategy names and aliases to constructors.
type Registry struct {
	mu       sync.Mutex
	creators map[string]entry
	rng      *rand.Rand // nil: strategies seed themselves from entropy
}

type Option func(r *Registry)

// WithSeed makes every created strategy receive a seed drawn from a generator
// seeded with seed, so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Registry) {
		r.rng = rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15))
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{creators: map[string]entry{}}
	for _, option := range options {
		option(r)
	}
	return r
}

// DefaultRegistry returns a registry holding all built-in strategies.
func DefaultRegistry(options ...Option) *Registry {
	r := NewRegistry(options...)
	r.Register("random", func() game.Strategy { return NewRandom() })
	r.Register("alwayscooperate", func() game.Strategy { return NewAlwaysCooperate() })
	r.Register("alwaysdefect", func() game.Strategy { return NewAlwaysDefect() })
	r.Register("fiftyfifty", func() game.Strategy { return NewFiftyFifty() })
	r.Register("titfortat", func() game.Strategy { return NewTitForTat() })
	r.Register("adaptive", func() game.Strategy { return NewAdaptive() })
	return r
}

// Register adds a constructor under its canonical name and the fixed aliases
// known for that name.
func (r *Registry) Register(name string, create Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := strings.ToLower(name)
	e := entry{canonical: canonical, create: create}
	r.creators[canonical] = e
	for _, alias := range aliases[canonical] {
		r.creators[alias] = e
	}
}

// Canonical resolves a name or alias to its canonical name.
func (r *Registry) Canonical(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.creators[strings.ToLower(name)]
	return e.canonical, ok
}

// Exists reports whether name or alias is registered, ignoring case.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Canonical(name)
	return ok
}

// Available returns the sorted canonical names, aliases excluded.
func (r *Registry) Available() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := []string{}
	for _, e := range r.creators {
		names = append(names, e.canonical)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Create builds a new strategy. When configDir is set and the strategy is
// Configurable, <configDir>/<canonical>.cfg is applied if it exists.
func (r *Registry) Create(name, configDir string) (game.Strategy, error) {
	r.mu.Lock()
	e, ok := r.creators[strings.ToLower(name)]
	var seed uint64
	if ok && r.rng != nil {
		seed = r.rng.Uint64()
	}
	r.mu.Unlock()

	if !ok {
		available := r.Available()
		log.Warn().Msgf("unknown strategy %q, available strategies: %s", name, strings.Join(available, ", "))
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownStrategy, name, strings.Join(available, ", "))
	}

	strategy := e.create()
	if s, ok := strategy.(Seeded); ok && r.rng != nil {
		s.Seed(seed)
	}
	if c, ok := strategy.(Configurable); ok && configDir != "" {
		path := ConfigPath(configDir, e.canonical)
		cfg, err := LoadConfig(path)
		switch {
		case err == nil:
			c.Configure(cfg)
			log.Debug().Msgf("%s: loaded configuration from %s", strategy.Name(), path)
		case errors.Is(err, os.ErrNotExist):
			// built-in defaults
		default:
			log.Warn().Err(err).Msgf("%s: ignoring configuration %s", strategy.Name(), path)
		}
	}
	return strategy, nil
}
