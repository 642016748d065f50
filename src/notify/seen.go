package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// SeenStore is the durable set of item ids already forwarded.
type SeenStore interface {
	Load(ctx context.Context) (map[string]bool, error)
	Add(ctx context.Context, id string) error
}

// FileSeenStore keeps the set as a JSON array of ids. Every Add rewrites the
// file through a rename, so a crash leaves either the old or the new set.
type FileSeenStore struct {
	path string
	mu   sync.Mutex
	ids  map[string]bool
}

func NewFileSeenStore(path string) *FileSeenStore {
	return &FileSeenStore{path: path}
}

func (f *FileSeenStore) Load(_ context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(f.ids))
	for id := range f.ids {
		out[id] = true
	}
	return out, nil
}

func (f *FileSeenStore) loadLocked() error {
	f.ids = make(map[string]bool)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	for _, id := range ids {
		f.ids[id] = true
	}
	return nil
}

func (f *FileSeenStore) Add(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids == nil {
		if err := f.loadLocked(); err != nil {
			return err
		}
	}
	if f.ids[id] {
		return nil
	}
	f.ids[id] = true

	ids := make([]string, 0, len(f.ids))
	for k := range f.ids {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	buf, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

const seenKey = "forwarder:seen_items"

// RedisSeenStore keeps the set in a redis SET, which lets overlapping runs on
// different hosts share it.
type RedisSeenStore struct {
	rdb *redis.Client
	key string
}

func NewRedisSeenStore(rdb *redis.Client) *RedisSeenStore {
	return &RedisSeenStore{rdb: rdb, key: seenKey}
}

func (r *RedisSeenStore) Load(ctx context.Context) (map[string]bool, error) {
	ids, err := r.rdb.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *RedisSeenStore) Add(ctx context.Context, id string) error {
	return r.rdb.SAdd(ctx, r.key, id).Err()
}
