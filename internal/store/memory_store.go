package store

import (
	"sync"
	"time"

	"standings-ticker/internal/domain"
)

// MemoryStore keeps a thread-safe snapshot of league sections in memory.
type MemoryStore struct {
	mu        sync.RWMutex
	sections  []domain.LeagueSection
	byLeague  map[string]domain.LeagueSection
	updatedAt time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byLeague: make(map[string]domain.LeagueSection),
	}
}

// Sections returns a copy of the current sections in refresh order.
func (s *MemoryStore) Sections() []domain.LeagueSection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.LeagueSection, len(s.sections))
	copy(result, s.sections)
	return result
}

// Section retrieves a single league's section by key.
func (s *MemoryStore) Section(leagueKey string) (domain.LeagueSection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.byLeague[leagueKey]
	return sec, ok
}

// SetSections replaces the existing snapshot with the result of a refresh cycle.
func (s *MemoryStore) SetSections(sections []domain.LeagueSection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = make([]domain.LeagueSection, len(sections))
	copy(s.sections, sections)
	s.byLeague = make(map[string]domain.LeagueSection, len(sections))
	for _, sec := range sections {
		s.byLeague[sec.LeagueKey] = sec
	}
	s.updatedAt = time.Now()
}

// UpdatedAt reports when the snapshot was last replaced.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
