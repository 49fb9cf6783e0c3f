package career

import (
	"sync"
	"time"
)

// MemoryRepository keeps careers and shift records in memory.
// It implements Repository and ShiftRecorder.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	shifts   []ShiftRecord
	now      func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[string]Profile),
		now:      time.Now,
	}
}

func (m *MemoryRepository) LoadProfile(player string) (Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[player]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Upgrades = append([]string(nil), p.Upgrades...)
	return p, nil
}

func (m *MemoryRepository) SaveProfile(p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Upgrades = append([]string(nil), p.Upgrades...)
	m.profiles[p.Player] = p
	return nil
}

func (m *MemoryRepository) RecordShift(rec ShiftRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now()
	}
	m.shifts = append(m.shifts, rec)
	return nil
}

// Shifts returns the recorded shifts, oldest first.
func (m *MemoryRepository) Shifts() []ShiftRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ShiftRecord(nil), m.shifts...)
}

var (
	_ Repository    = (*MemoryRepository)(nil)
	_ ShiftRecorder = (*MemoryRepository)(nil)
)
