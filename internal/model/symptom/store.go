package symptom

// Store exposes catalog retrieval for handlers and the session registry.
type Store interface {
	List() []Symptom
	FindByID(id string) (Symptom, bool)
	Titles(ids []string) []string
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Symptom
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied symptoms.
func NewMemoryStore(items []Symptom) *MemoryStore {
	return &MemoryStore{items: append([]Symptom(nil), items...)}
}

// List returns the catalog in declaration order.
func (s *MemoryStore) List() []Symptom {
	return append([]Symptom(nil), s.items...)
}

// FindByID looks up a symptom by identifier.
func (s *MemoryStore) FindByID(id string) (Symptom, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Symptom{}, false
}

// Titles maps ids to display titles, keeping the caller's order and
// dropping ids the catalog does not know.
func (s *MemoryStore) Titles(ids []string) []string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.FindByID(id); ok {
			titles = append(titles, item.Title)
		}
	}
	return titles
}
