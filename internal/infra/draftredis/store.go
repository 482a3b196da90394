// Package draftredis implements ports.DraftStore on Redis.
//
// One store instance is bound to one slot key (one device), mirroring the
// single-slot, last-write-wins draft model: Save overwrites, Load reads the
// slot or reports empty, Clear deletes. No TTL; a draft lives until the
// session completes or is reset.
package draftredis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/studiofoto/intake/internal/core/draft"
	"github.com/studiofoto/intake/internal/core/ports"
)

var _ ports.DraftStore = (*Store)(nil)

type Store struct {
	client *redis.Client
	key    string
}

// New binds a store to its slot. device distinguishes drafts of different
// shop devices sharing one Redis.
func New(client *redis.Client, device string) *Store {
	return &Store{
		client: client,
		key:    fmt.Sprintf("intake:draft:%s", device),
	}
}

func (s *Store) Save(ctx context.Context, snap *draft.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("draftredis: marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("draftredis: save %q: %w", s.key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*draft.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draftredis: load %q: %w", s.key, err)
	}

	var snap draft.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("draftredis: unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("draftredis: clear %q: %w", s.key, err)
	}
	return nil
}
