package calculation

import (
	"sort"
	"strings"
	"sync"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	mdwlog "github.com/msto63/engcalc/foundation/core/log"
)

// Variant identifies one registered formula: its descriptor and a
// constructor for fresh instances.
type Variant struct {
	descriptor Descriptor
	factory    func() Calculation
}

// NewVariant captures the descriptor of a prototype built by factory.
func NewVariant(factory func() Calculation) *Variant {
	return &Variant{
		descriptor: factory().Descriptor().Clone(),
		factory:    factory,
	}
}

// Descriptor returns a copy of the variant's descriptor.
func (v *Variant) Descriptor() Descriptor { return v.descriptor.Clone() }

// Key returns "category.name".
func (v *Variant) Key() string { return v.descriptor.Key() }

// Name returns the variant name.
func (v *Variant) Name() string { return v.descriptor.Name }

// Category returns the variant category.
func (v *Variant) Category() string { return v.descriptor.Category }

// New creates a fresh calculation instance.
func (v *Variant) New() Calculation { return v.factory() }

// DuplicatePolicy decides what Register does with an existing key.
type DuplicatePolicy string

const (
	// PolicyOverwrite replaces the existing variant and logs a warning.
	PolicyOverwrite DuplicatePolicy = "overwrite"
	// PolicyError rejects the registration.
	PolicyError DuplicatePolicy = "error"
)

// ParseDuplicatePolicy parses "overwrite" or "error". Empty means
// overwrite.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyError:
		return PolicyError, nil
	}
	return "", mdwerror.Newf("invalid duplicate policy %q", s).
		WithCode(mdwerror.CodeInvalidConfig)
}

// Registry maps "category.name" keys to variants. Reads are safe for
// concurrent use; registration is expected at startup.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]*Variant
	policy   DuplicatePolicy
	logger   *mdwlog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDuplicatePolicy sets the policy for duplicate keys.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger sets the registry logger.
func WithLogger(logger *mdwlog.Logger) Option {
	return func(r *Registry) { r.logger = logger.WithName("registry") }
}

// NewRegistry creates an empty registry with the overwrite policy.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		variants: make(map[string]*Variant),
		policy:   PolicyOverwrite,
		logger:   mdwlog.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared production registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Policy returns the duplicate policy.
func (r *Registry) Policy() DuplicatePolicy { return r.policy }

// Register adds v and returns it, so registration can wrap a variant
// declaration.
func (r *Registry) Register(v *Variant) (*Variant, error) {
	if v == nil {
		return nil, mdwerror.New("nil variant").WithCode(mdwerror.CodeInvalidInput)
	}
	if v.descriptor.Name == "" || v.descriptor.Category == "" {
		return nil, mdwerror.New("variant needs a name and a category").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("key", v.Key())
	}

	key := v.Key()
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.variants[key]; ok && existing != v {
		if r.policy == PolicyError {
			return nil, mdwerror.Newf("calculation %q is already registered", key).
				WithCode(mdwerror.CodeDuplicateEntry).
				WithDetail("key", key)
		}
		r.logger.Warn("calculation overwritten", mdwlog.Field("key", key))
	}
	r.variants[key] = v
	r.logger.Debug("calculation registered", mdwlog.Field("key", key))
	return v, nil
}

// MustRegister is Register for startup code; it panics on error.
func (r *Registry) MustRegister(v *Variant) *Variant {
	if _, err := r.Register(v); err != nil {
		panic(err)
	}
	return v
}

// Get looks up a variant by category and name.
func (r *Registry) Get(category, name string) (*Variant, bool) {
	return r.GetByKey(Key(category, name))
}

// GetByKey looks up a variant by "category.name".
func (r *Registry) GetByKey(key string) (*Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[key]
	return v, ok
}

// Create returns a fresh instance of a registered variant.
func (r *Registry) Create(category, name string) (Calculation, error) {
	v, ok := r.Get(category, name)
	if !ok {
		return nil, notFound(Key(category, name))
	}
	return v.New(), nil
}

// ListAll returns every variant sorted by key.
func (r *Registry) ListAll() []*Variant {
	return r.list(func(*Variant) bool { return true })
}

// ListByCategory returns the variants of one category sorted by key.
func (r *Registry) ListByCategory(category string) []*Variant {
	return r.list(func(v *Variant) bool { return v.Category() == category })
}

func (r *Registry) list(keep func(*Variant) bool) []*Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Variant, 0, len(r.variants))
	for _, v := range r.variants {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Categories returns the distinct categories, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, v := range r.variants {
		if c := v.Category(); !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories
}

// Clear removes every variant.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants = make(map[string]*Variant)
}

// Len returns the number of registered variants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.variants)
}

// Run creates a fresh instance of category.name and evaluates it.
func (r *Registry) Run(category, name string, inputs Inputs) (*Result, error) {
	calc, err := r.Create(category, name)
	if err != nil {
		return nil, err
	}

	timer := r.logger.StartTimer("calculate").WithField("key", Key(category, name))
	result, err := calc.Calculate(inputs)
	if err == nil && result == nil {
		err = mdwerror.Newf("calculation %q returned no result", Key(category, name)).
			WithCode(mdwerror.CodeInternal)
	}
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.WithField("steps", len(result.steps)).Stop()
	return result, nil
}

func notFound(key string) error {
	return mdwerror.Newf("calculation %q not found", key).
		WithCode(mdwerror.CodeNotFound).
		WithDetail("key", key)
}
