package ruleset

// Store exposes rule-set retrieval for the dialogue surfaces.
type Store interface {
	List() []RuleSet
	FindByID(id string) (RuleSet, bool)
}

// MemoryStore implements Store with an in-memory slice; rule tables are
// read-only after construction.
type MemoryStore struct {
	items []RuleSet
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied rule sets.
func NewMemoryStore(items []RuleSet) *MemoryStore {
	return &MemoryStore{items: append([]RuleSet(nil), items...)}
}

// List returns the configured rule sets.
func (s *MemoryStore) List() []RuleSet {
	return append([]RuleSet(nil), s.items...)
}

// FindByID looks up a rule set by identifier.
func (s *MemoryStore) FindByID(id string) (RuleSet, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return RuleSet{}, false
}
