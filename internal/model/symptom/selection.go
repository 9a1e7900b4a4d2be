package symptom

// Selection is the set of symptom ids a user has picked. Order carries no
// meaning for matching; IDs reports them in the order they were added.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, ignoring blanks and duplicates.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		if id == "" || s.Contains(id) {
			continue
		}
		s.ids = append(s.ids, id)
	}
	return s
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selection) Contains(id string) bool {
	if s == nil {
		return false
	}
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.ids...)
}

// Clear drops every selected id, as on logout or reset.
func (s *Selection) Clear() {
	s.ids = nil
}
