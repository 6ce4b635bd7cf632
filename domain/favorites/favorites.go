// Package favorites models a user's set of favorite technique ids.
package favorites

// Set is an insertion-ordered set of technique ids. The zero value is empty
// and ready to use. Add and Remove are idempotent.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// New builds a set from ids, dropping duplicates and empty ids
func New(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. It reports whether the set changed.
func (s *Set) Add(id string) bool {
	if id == "" || s.Contains(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id. It reports whether the set changed.
func (s *Set) Remove(id string) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds id when absent and removes it when present. It returns the
// membership after the call.
func (s *Set) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	return s.Add(id)
}

// Contains reports membership
func (s *Set) Contains(id string) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// IDs returns a copy of the members in insertion order
func (s *Set) IDs() []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s.ids...)
}

// Len returns the number of members
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}
