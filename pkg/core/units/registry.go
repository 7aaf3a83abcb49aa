package units

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/unit"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	mdwlog "github.com/msto63/engcalc/foundation/core/log"
	"github.com/msto63/engcalc/pkg/core/cache"
)

type indexEntry struct {
	def    *definition
	symbol bool
}

// Registry holds a unit vocabulary and parses unit expressions against it.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*definition
	index map[string]indexEntry

	parsed *cache.Cache[parsed]
	logger *mdwlog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCacheTTL sets how long parsed expressions stay cached. Zero keeps
// them until the vocabulary changes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.parsed = cache.New[parsed](cache.Config{TTL: ttl})
	}
}

// WithLogger sets the logger used to report vocabulary changes.
func WithLogger(logger *mdwlog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger.WithName("units")
	}
}

// NewRegistry returns a registry holding the SI base units, common derived
// units, US customary units and temperature scales.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		defs:   make(map[string]*definition),
		index:  make(map[string]indexEntry),
		parsed: cache.New[parsed](cache.Config{}),
		logger: mdwlog.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, b := range baseUnits {
		def := &definition{name: b.name, symbol: b.symbol, aliases: b.aliases, scale: b.scale, dims: cleanDims(b.dims)}
		if err := r.insert(def); err != nil {
			panic(err)
		}
	}
	for _, d := range builtinDefinitions {
		if err := r.Define(d); err != nil {
			panic(err)
		}
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry with the engineering units
// registered.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterEngineeringUnits(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// RegisterEngineeringUnits adds ksi, ksf, pcf, plf, klf and kip to reg. It
// is safe to call more than once.
func RegisterEngineeringUnits(reg *Registry) error {
	for _, d := range engineeringDefinitions {
		if err := reg.Define(d); err != nil {
			return err
		}
	}
	return nil
}

// Define adds a unit using the pint definition syntax:
//
//	name = expression [; offset: value] [= symbol] [= alias ...]
//
// A symbol of "_" means none. Defining an existing name again with the same
// meaning only adds its new aliases; a different meaning is a
// DUPLICATE_ENTRY error.
func (r *Registry) Define(definitionLine string) error {
	parts := strings.Split(definitionLine, "=")
	if len(parts) < 2 {
		return invalidDefinition(definitionLine, "expected name = expression")
	}
	name := strings.TrimSpace(parts[0])
	if !isIdentifier(name) {
		return invalidDefinition(definitionLine, "invalid unit name")
	}

	expr, offset := strings.TrimSpace(parts[1]), 0.0
	if i := strings.Index(expr, ";"); i >= 0 {
		opt := strings.TrimSpace(expr[i+1:])
		expr = strings.TrimSpace(expr[:i])
		value, ok := strings.CutPrefix(opt, "offset:")
		if !ok {
			return invalidDefinition(definitionLine, "unknown option "+opt)
		}
		var err error
		if offset, err = strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return invalidDefinition(definitionLine, "invalid offset")
		}
	}

	var symbol string
	if len(parts) > 2 {
		if s := strings.TrimSpace(parts[2]); s != "_" {
			symbol = s
		}
	}
	var aliases []string
	for _, a := range parts[min(len(parts), 3):] {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}

	p, err := r.parse(expr)
	if err != nil {
		return mdwerror.Wrap(err, "define "+name).WithDetail("definition", definitionLine)
	}
	if p.unit.hasOffsetFactor() {
		return &OffsetUnitError{Unit: p.unit.String(), Op: "define " + name}
	}

	def := &definition{
		name:    name,
		symbol:  symbol,
		aliases: aliases,
		scale:   p.factor * p.unit.scale(),
		offset:  offset,
		dims:    p.unit.Dimensions(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insert(def); err != nil {
		return err
	}
	r.parsed.Clear()
	r.logger.Debug("unit defined", mdwlog.Fields{
		"unit":           name,
		"dimensionality": FormatDimensions(def.dims),
	})
	return nil
}

// insert adds def and, for offset units, its delta companion. Callers hold
// the write lock, except during construction.
func (r *Registry) insert(def *definition) error {
	existing, redefined := r.defs[def.name]
	if redefined && !existing.sameMeaning(def) {
		return mdwerror.Newf("unit %q is already defined with a different meaning", def.name).
			WithCode(mdwerror.CodeDuplicateEntry).
			WithDetail("unit", def.name)
	}

	keys := append([]string{def.name}, def.aliases...)
	if def.symbol != "" {
		keys = append(keys, def.symbol)
	}
	for _, key := range keys {
		if other, ok := r.index[key]; ok && !other.def.sameMeaning(def) {
			return mdwerror.Newf("unit name %q is already used by %q", key, other.def.name).
				WithCode(mdwerror.CodeDuplicateEntry).
				WithDetail("unit", def.name)
		}
	}

	// Same meaning again: keep the first definition and resolve the new
	// names to it.
	if redefined {
		if existing.delta != "" {
			delta := &definition{name: existing.delta, scale: def.scale, dims: def.dims}
			for _, a := range def.aliases {
				delta.aliases = append(delta.aliases, "delta_"+a)
			}
			if err := r.insert(delta); err != nil {
				return err
			}
		}
		r.indexNames(existing, def.aliases, def.symbol)
		return nil
	}

	if def.offset != 0 {
		delta := &definition{name: "delta_" + def.name, scale: def.scale, dims: def.dims}
		if def.symbol != "" {
			delta.symbol = "Δ" + def.symbol
		}
		for _, a := range def.aliases {
			delta.aliases = append(delta.aliases, "delta_"+a)
		}
		if err := r.insert(delta); err != nil {
			return err
		}
		def.delta = delta.name
	}

	r.defs[def.name] = def
	r.indexNames(def, append([]string{def.name}, def.aliases...), def.symbol)
	return nil
}

// indexNames points every untaken name and the symbol at def.
func (r *Registry) indexNames(def *definition, names []string, symbol string) {
	for _, key := range names {
		if _, taken := r.index[key]; !taken {
			r.index[key] = indexEntry{def: def}
		}
	}
	if symbol != "" {
		if _, taken := r.index[symbol]; !taken {
			r.index[symbol] = indexEntry{def: def, symbol: true}
		}
	}
}

func invalidDefinition(line, reason string) error {
	return mdwerror.Newf("invalid unit definition %q: %s", line, reason).
		WithCode(mdwerror.CodeInvalidInput)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}

// resolve maps a single unit name to a factor: exact names, symbols and
// aliases first, then prefixed forms, then plurals of names.
func (r *Registry) resolve(name string) (factor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.index[name]; ok {
		return factor{def: e.def}, nil
	}
	if f, ok := r.resolvePrefixed(name, true); ok {
		return f, nil
	}
	if singular, ok := strings.CutSuffix(name, "s"); ok && len(singular) > 1 {
		if e, ok := r.index[singular]; ok && !e.symbol {
			return factor{def: e.def}, nil
		}
		if f, ok := r.resolvePrefixed(singular, false); ok {
			return f, nil
		}
	}
	return factor{}, &UndefinedUnitError{Unit: name}
}

// resolvePrefixed splits a prefix name off a unit name ("kilometer") or a
// prefix symbol off a unit symbol ("km"). Offset units take no prefix.
func (r *Registry) resolvePrefixed(name string, symbols bool) (factor, bool) {
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(name, p.name)
		if !ok {
			continue
		}
		if e, ok := r.index[rest]; ok && !e.symbol && e.def.offset == 0 {
			return factor{def: e.def, prefix: p}, true
		}
	}
	if !symbols {
		return factor{}, false
	}
	for _, sym := range sortedPrefixSymbols {
		rest, ok := strings.CutPrefix(name, sym)
		if !ok || rest == "" {
			continue
		}
		if e, ok := r.index[rest]; ok && e.symbol && e.def.offset == 0 {
			return factor{def: e.def, prefix: prefixSymbols[sym]}, true
		}
	}
	return factor{}, false
}

var sortedPrefixSymbols = func() []string {
	syms := make([]string, 0, len(prefixSymbols))
	for s := range prefixSymbols {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool {
		if len(syms[i]) != len(syms[j]) {
			return len(syms[i]) > len(syms[j])
		}
		return syms[i] < syms[j]
	})
	return syms
}()

func (r *Registry) parse(expr string) (parsed, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return parsed{}, &MissingUnitError{}
	}
	return r.parsed.GetOrSet(expr, func() (parsed, error) {
		return parseExpression(expr, r.resolve)
	})
}

// CacheStats describes the cache of parsed unit expressions.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
	HitRate float64
}

// CacheStats reports the parse cache. Entries includes expired items not
// yet purged; HitRate is a percentage.
func (r *Registry) CacheStats() CacheStats {
	hits, misses, rate := r.parsed.Stats()
	return CacheStats{Entries: r.parsed.Size(), Hits: hits, Misses: misses, HitRate: rate}
}

// Parse evaluates a unit expression. Numbers inside the expression are
// returned as a separate scale factor: "1000 * psi" yields psi and 1000.
func (r *Registry) Parse(expr string) (Unit, float64, error) {
	p, err := r.parse(expr)
	if err != nil {
		return Unit{}, 0, err
	}
	return p.unit, p.factor, nil
}

// Has reports whether expr is a valid unit expression.
func (r *Registry) Has(expr string) bool {
	_, err := r.parse(expr)
	return err == nil
}

// Quantity creates a quantity in this registry. A numeric factor inside
// the unit expression multiplies the magnitude.
func (r *Registry) Quantity(magnitude float64, unitExpr string, precision ...int) (Quantity, error) {
	prec := DefaultPrecision
	if len(precision) > 0 {
		prec = precision[0]
	}
	if prec < 0 {
		return Quantity{}, negativePrecision(prec)
	}
	p, err := r.parse(unitExpr)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{magnitude: magnitude * p.factor, unit: p.unit, precision: prec, reg: r}, nil
}

// Dimensionality returns the bracketed dimensionality of a unit expression.
func (r *Registry) Dimensionality(unitExpr string) (string, error) {
	p, err := r.parse(unitExpr)
	if err != nil {
		return "", err
	}
	return p.unit.Dimensionality(), nil
}

// Convert converts a bare value between two unit expressions.
func (r *Registry) Convert(value float64, from, to string) (float64, error) {
	q, err := r.Quantity(value, from)
	if err != nil {
		return 0, err
	}
	converted, err := q.To(to)
	if err != nil {
		return 0, err
	}
	return converted.Magnitude(), nil
}

// IsCompatible reports whether two unit expressions share a dimensionality.
// Unknown units are never compatible.
func (r *Registry) IsCompatible(unit1, unit2 string) bool {
	a, err := r.parse(unit1)
	if err != nil {
		return false
	}
	b, err := r.parse(unit2)
	if err != nil {
		return false
	}
	return sameDims(a.unit.Dimensions(), b.unit.Dimensions())
}

// BaseUnits returns the SI base unit string for a unit expression, e.g.
// "kilogram / meter / second ** 2" for ksi.
func (r *Registry) BaseUnits(unitExpr string) (string, error) {
	p, err := r.parse(unitExpr)
	if err != nil {
		return "", err
	}
	return r.baseUnit(p.unit.Dimensions()).String(), nil
}

// CompatibleUnits lists common units sharing the dimensionality of
// unitExpr. Unknown units and uncommon dimensions yield an empty list.
func (r *Registry) CompatibleUnits(unitExpr string) []string {
	dim, err := r.Dimensionality(unitExpr)
	if err != nil {
		return []string{}
	}
	return append([]string{}, commonUnits[dim]...)
}

// Names returns the canonical names of all defined units, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// baseUnit builds the SI base unit for dims.
func (r *Registry) baseUnit(dims unit.Dimensions) Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	terms := make(map[string]factor)
	for d, exp := range dims {
		base, ok := siBase[d]
		if !ok || exp == 0 {
			continue
		}
		f := factor{def: r.defs[base.name], exp: exp}
		if base.prefix != "" {
			for _, p := range prefixes {
				if p.name == base.prefix {
					f.prefix = p
				}
			}
		}
		terms[f.name()] = f
	}
	return newUnit(terms)
}

// deltaUnit returns the difference unit of an offset unit.
func (r *Registry) deltaUnit(def *definition) Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.defs[def.delta]
	return newUnit(map[string]factor{d.name: {def: d, exp: 1}})
}
