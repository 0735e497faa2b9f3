package dirstat

import "sync"

// SeenSet records the files already accounted for during a walk.
// Entries are never removed. It is safe for concurrent use.
type SeenSet struct {
	mu  sync.Mutex
	ids map[FileID]struct{}
}

// NewSeenSet returns an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[FileID]struct{})}
}

// Contains reports whether id has been added.
func (s *SeenSet) Contains(id FileID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]

	return ok
}

// Add inserts id. Adding an id twice is a no-op.
func (s *SeenSet) Add(id FileID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids[id] = struct{}{}
}

// Visit adds id and reports whether it was absent before.
func (s *SeenSet) Visit(id FileID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false
	}

	s.ids[id] = struct{}{}

	return true
}

// Len returns the number of distinct ids.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}
