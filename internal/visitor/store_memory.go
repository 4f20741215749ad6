package visitor

import (
	"context"
	"sync"
)

// MemoryStore keeps visitor state in a map
type MemoryStore struct {
	mu    sync.RWMutex
	infos map[string]Info
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{infos: make(map[string]Info)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.infos[key]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, info *Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.infos[key] = *info
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.infos, key)
	return nil
}
