package params

// Strategy names how two values meeting at the same key are reconciled.
type Strategy string

const (
	// StrategyAppend concatenates lists: base items followed by override items.
	StrategyAppend Strategy = "append"
	// StrategyMerge recursively merges mappings.
	StrategyMerge Strategy = "merge"
	// StrategyOverride replaces the base value with the override value.
	StrategyOverride Strategy = "override"
	// StrategyKeepBase ignores the override value.
	StrategyKeepBase Strategy = "keep-base"
)

// Strategies configures a Merger. List and Map apply when both sides share
// that shape; Fallback applies to any other pair of the same kind; Conflict
// applies when the two sides have different shapes.
type Strategies struct {
	List     Strategy
	Map      Strategy
	Fallback Strategy
	Conflict Strategy
}

// DefaultStrategies appends lists, merges mappings and lets overrides win
// everywhere else.
func DefaultStrategies() Strategies {
	return Strategies{
		List:     StrategyAppend,
		Map:      StrategyMerge,
		Fallback: StrategyOverride,
		Conflict: StrategyOverride,
	}
}

// Merger deep-merges parameter mappings according to its strategies. A Merger
// holds no mutable state and is safe for concurrent use.
type Merger struct {
	strategies Strategies
}

// NewMerger constructs a Merger. Empty strategy slots fall back to the
// defaults.
func NewMerger(strategies Strategies) *Merger {
	defaults := DefaultStrategies()
	if strategies.List == "" {
		strategies.List = defaults.List
	}
	if strategies.Map == "" {
		strategies.Map = defaults.Map
	}
	if strategies.Fallback == "" {
		strategies.Fallback = defaults.Fallback
	}
	if strategies.Conflict == "" {
		strategies.Conflict = defaults.Conflict
	}
	return &Merger{strategies: strategies}
}

// Strategies reports the configuration in use.
func (m *Merger) Strategies() Strategies {
	return m.strategies
}

var defaultMerger = NewMerger(DefaultStrategies())

// Merge combines base and overrides with the default strategies. Neither input
// is modified; the result shares no containers with them.
func Merge(base, overrides Params) Params {
	return defaultMerger.Merge(base, overrides)
}

// Merge combines base and overrides. Keys only present in base are kept, keys
// only present in overrides are added, and shared keys follow the configured
// strategies.
func (m *Merger) Merge(base, overrides Params) Params {
	out := Clone(base)
	if out == nil {
		out = make(Params, len(overrides))
	}
	for key, value := range overrides {
		existing, ok := out[key]
		if !ok {
			out[key] = cloneValue(value)
			continue
		}
		out[key] = m.mergeValue(existing, value)
	}
	return out
}

func (m *Merger) mergeValue(base, override any) any {
	baseMap, overrideMap := AsParams(base), AsParams(override)
	if baseMap != nil && overrideMap != nil {
		return m.apply(m.strategies.Map, base, override)
	}

	baseList, baseIsList := AsList(base)
	overrideList, overrideIsList := AsList(override)
	if baseIsList && overrideIsList {
		if m.strategies.List == StrategyAppend {
			merged := make([]any, 0, len(baseList)+len(overrideList))
			for _, item := range baseList {
				merged = append(merged, cloneValue(item))
			}
			for _, item := range overrideList {
				merged = append(merged, cloneValue(item))
			}
			return merged
		}
		return m.apply(m.strategies.List, base, override)
	}

	if sameShape(base, override) {
		return m.apply(m.strategies.Fallback, base, override)
	}
	return m.apply(m.strategies.Conflict, base, override)
}

func (m *Merger) apply(strategy Strategy, base, override any) any {
	switch strategy {
	case StrategyKeepBase:
		return base
	case StrategyMerge:
		baseMap, overrideMap := AsParams(base), AsParams(override)
		if baseMap != nil && overrideMap != nil {
			return m.Merge(baseMap, overrideMap)
		}
		return cloneValue(override)
	default:
		return cloneValue(override)
	}
}

// MergeItems merges overrides into items index by index so overrides adjust
// existing items rather than appending new ones. Override entries beyond the
// end of items are appended.
func MergeItems(items []Params, overrides []Params) []Params {
	out := make([]Params, 0, max(len(items), len(overrides)))
	for idx, item := range items {
		if idx < len(overrides) {
			out = append(out, Merge(item, overrides[idx]))
			continue
		}
		out = append(out, Clone(item))
	}
	for idx := len(items); idx < len(overrides); idx++ {
		out = append(out, Clone(overrides[idx]))
	}
	return out
}

// ItemList converts a list value (as found under "items") into []Params,
// skipping entries that are not mappings.
func ItemList(value any) []Params {
	list, ok := AsList(value)
	if !ok {
		return nil
	}
	out := make([]Params, 0, len(list))
	for _, entry := range list {
		if mapped := AsParams(entry); mapped != nil {
			out = append(out, mapped)
		}
	}
	return out
}

type shape int

const (
	shapeScalar shape = iota
	shapeMap
	shapeList
)

func shapeOf(value any) shape {
	if AsParams(value) != nil {
		return shapeMap
	}
	if _, ok := AsList(value); ok {
		return shapeList
	}
	return shapeScalar
}

func sameShape(a, b any) bool {
	return shapeOf(a) == shapeOf(b)
}
