package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists the full store state into one named slot. Load is
// called once at startup; Save after every mutation.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.StoreState, bool, error)
	Save(ctx context.Context, state domain.StoreState) error
}

type fileSnapshots struct {
	path string
}

// NewFileSnapshots persists the state as a JSON file named after the slot,
// e.g. <dataDir>/ii.analysis.v1.json.
func NewFileSnapshots(dataDir, slot string) SnapshotStore {
	return &fileSnapshots{path: filepath.Join(dataDir, slot+".json")}
}

func (f *fileSnapshots) Load(_ context.Context) (*domain.StoreState, bool, error) {
	payload, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot file: %w", err)
	}

	var state domain.StoreState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, false, fmt.Errorf("decode snapshot file: %w", err)
	}
	return &state, true, nil
}

func (f *fileSnapshots) Save(_ context.Context, state domain.StoreState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	// Write to a temp file then rename so a crash mid-write never leaves a
	// truncated snapshot behind.
	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, payload, 0644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

type redisSnapshots struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshots persists the state as a single JSON value under the slot
// key. No TTL: the snapshot lives until the next Save overwrites it.
func NewRedisSnapshots(client *redis.Client, slot string) SnapshotStore {
	return &redisSnapshots{client: client, key: slot}
}

func (r *redisSnapshots) Load(ctx context.Context) (*domain.StoreState, bool, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var state domain.StoreState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return &state, true, nil
}

func (r *redisSnapshots) Save(ctx context.Context, state domain.StoreState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

type noopSnapshots struct{}

// NewNoopSnapshots keeps the state purely in memory.
func NewNoopSnapshots() SnapshotStore {
	return noopSnapshots{}
}

func (noopSnapshots) Load(context.Context) (*domain.StoreState, bool, error) {
	return nil, false, nil
}

func (noopSnapshots) Save(context.Context, domain.StoreState) error {
	return nil
}
