package guard

import (
	"context"
	"sync"
)

type entry struct {
	phase Phase
	gen   uint64
}

// Memory is a process-local Guard.
type Memory struct {
	mu      sync.Mutex
	gen     uint64
	entries map[int64]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[int64]entry)}
}

func (m *Memory) Acquire(_ context.Context, uid int64, phase Phase) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.entries[uid]; ok {
		return nil, alreadyDeleting(uid, held.phase)
	}
	m.gen++
	gen := m.gen
	m.entries[uid] = entry{phase: phase, gen: gen}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if cur, ok := m.entries[uid]; ok && cur.gen == gen {
				delete(m.entries, uid)
			}
		})
	}, nil
}

func (m *Memory) Phase(_ context.Context, uid int64) (Phase, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[uid]
	return e.phase, ok, nil
}
