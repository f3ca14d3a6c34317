package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]service.QueryResult
}

var _ QueryStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]service.QueryResult)}
}

func (s *MemoryStore) Save(_ context.Context, result *service.QueryResult) error {
	if result == nil || result.ID == "" {
		return errors.New("query result without id")
	}

	stored := *result
	stored.Tokens = append([]service.Token(nil), result.Tokens...)

	s.mu.Lock()
	s.results[result.ID] = stored
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*service.QueryResult, error) {
	s.mu.RLock()
	result, ok := s.results[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	result.Tokens = append([]service.Token(nil), result.Tokens...)
	return &result, nil
}
