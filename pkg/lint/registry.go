package lint

import (
	"slices"
	"strings"
	"sync"
)

// Registry is a concurrency-safe catalogue of rules. Registration order
// is preserved and used to break ties between findings at one position.
type Registry struct {
	mu      sync.RWMutex
	rules   []Rule         // registration order
	index   map[string]int // rule ID -> position in rules
	names   map[string]string
	aliases map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		index:   map[string]int{},
		names:   map[string]string{},
		aliases: map[string]string{},
	}
}

// Register adds rule. Registering an ID a second time swaps the rule in
// at its original position and drops the old name.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if pos, ok := r.index[id]; ok {
		delete(r.names, r.rules[pos].Name())
		r.rules[pos] = rule
	} else {
		r.index[id] = len(r.rules)
		r.rules = append(r.rules, rule)
	}
	r.names[rule.Name()] = id
}

// RegisterAlias makes alias resolve to ruleID.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	r.aliases[alias] = ruleID
	r.mu.Unlock()
}

func (r *Registry) byID(id string) (Rule, bool) {
	pos, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.rules[pos], true
}

// lookup resolves key as an ID, then a name, then optionally an alias.
// Callers hold the read lock.
func (r *Registry) lookup(key string, withAliases bool) (Rule, bool) {
	if rule, ok := r.byID(key); ok {
		return rule, true
	}
	if id, ok := r.names[key]; ok {
		return r.byID(id)
	}
	if withAliases {
		if id, ok := r.aliases[key]; ok {
			return r.byID(id)
		}
	}
	return nil, false
}

// Get finds a rule by ID or name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(key, false)
}

func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID(id)
}

func (r *Registry) GetByName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.byID(id)
}

// Resolve accepts an ID, name or alias and returns the canonical ID.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.lookup(key, true)
	if !ok {
		return "", nil, false
	}
	return rule.ID(), rule, true
}

// Rules returns every rule sorted by ID.
func (r *Registry) Rules() []Rule {
	out := r.Ordered()
	slices.SortFunc(out, func(a, b Rule) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}

// Ordered returns every rule in registration order.
func (r *Registry) Ordered() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rules)
}

// Order is the registration index of id, or -1 when unknown.
func (r *Registry) Order(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if pos, ok := r.index[id]; ok {
		return pos
	}
	return -1
}

// IDs returns the registered IDs, sorted.
func (r *Registry) IDs() []string {
	rules := r.Rules()
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID()
	}
	return ids
}

// DefaultRegistry holds the built-in rules; the rules package fills it
// from init.
//
//nolint:gochecknoglobals // populated by rule package init
var DefaultRegistry = NewRegistry()
