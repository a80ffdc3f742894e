package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/toolshub/api/internal/model"
)

const (
	toolsKey = "toolshub:tools"
	auditKey = "toolshub:audit"
)

// RedisStore keeps both documents in Redis, matching the portal's original
// KV layout: one key for the tool collection, one for the audit log.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Connected to Redis at %s", redisURL)
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]model.Tool, error) {
	data, err := s.client.Get(ctx, toolsKey).Bytes()
	if err == redis.Nil {
		// No tools yet, not an error.
		return []model.Tool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tools: %w", err)
	}

	var tools []model.Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools document: %w", err)
	}
	return tools, nil
}

func (s *RedisStore) Save(ctx context.Context, tools []model.Tool) error {
	data, err := json.Marshal(tools)
	if err != nil {
		return fmt.Errorf("failed to encode tools document: %w", err)
	}
	if err := s.client.Set(ctx, toolsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save tools: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadAudit(ctx context.Context) ([]model.AuditLogEntry, error) {
	data, err := s.client.Get(ctx, auditKey).Bytes()
	if err == redis.Nil {
		return []model.AuditLogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}

	var entries []model.AuditLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit log: %w", err)
	}
	return entries, nil
}

func (s *RedisStore) SaveAudit(ctx context.Context, entries []model.AuditLogEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode audit log: %w", err)
	}
	if err := s.client.Set(ctx, auditKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}

// Client exposes the underlying connection for components that share it
// (OTP codes, rate-limit counters).
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
