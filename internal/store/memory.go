package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/toolshub/api/internal/model"
)

// MemoryStore is an in-process ToolStore/AuditStore with the same
// whole-document semantics as the Redis one. Used in tests and for local
// development without Redis.
type MemoryStore struct {
	mu    sync.Mutex
	tools []byte
	audit []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]model.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tools == nil {
		return []model.Tool{}, nil
	}
	var tools []model.Tool
	if err := json.Unmarshal(s.tools, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (s *MemoryStore) Save(ctx context.Context, tools []model.Tool) error {
	data, err := json.Marshal(tools)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tools = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadAudit(ctx context.Context) ([]model.AuditLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.audit == nil {
		return []model.AuditLogEntry{}, nil
	}
	var entries []model.AuditLogEntry
	if err := json.Unmarshal(s.audit, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MemoryStore) SaveAudit(ctx context.Context, entries []model.AuditLogEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.audit = data
	s.mu.Unlock()
	return nil
}
