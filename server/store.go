package server

import (
	"sync"

	"lang_portal/generator"
)

// generationStore keeps the most recent generations in memory so the
// generator page can link to a download. Oldest entries are evicted first.
type generationStore struct {
	mu    sync.Mutex
	limit int
	order []string
	byID  map[string]generator.Generation
}

func newStore(limit int) *generationStore {
	if limit < 1 {
		limit = 1
	}
	return &generationStore{limit: limit, byID: make(map[string]generator.Generation)}
}

func (s *generationStore) add(g generator.Generation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[g.ID]; !ok {
		s.order = append(s.order, g.ID)
	}
	s.byID[g.ID] = g
	for len(s.order) > s.limit {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *generationStore) get(id string) (generator.Generation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.byID[id]
	return g, ok
}

func (s *generationStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
