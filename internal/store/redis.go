package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rcliao/space-dashboard/internal/model"
)

// RedisStore implements Store on Redis. Entries are JSON documents under
// prefix+"entry:"+key; each namespace keeps a set of its keys.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	mu      sync.Mutex
	entropy *rand.Rand
}

// NewRedisStore creates a RedisStore. prefix namespaces every Redis key, e.g. "space-dashboard:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RedisStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *RedisStore) entryKey(key string) string { return s.prefix + "entry:" + key }
func (s *RedisStore) nsKey(ns string) string     { return s.prefix + "ns:" + ns }
func (s *RedisStore) nsIndexKey() string         { return s.prefix + "namespaces" }

func (s *RedisStore) Put(ctx context.Context, p PutParams) (*model.CacheEntry, error) {
	if p.Key == "" {
		return nil, errors.New("key is required")
	}

	entry := model.CacheEntry{
		ID:        s.newID(),
		NS:        p.NS,
		Key:       p.Key,
		Value:     p.Value,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}

	// No expiration: entries live until removed.
	created, err := s.client.SetNX(ctx, s.entryKey(p.Key), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("store entry in redis: %w", err)
	}
	if !created {
		return s.Get(ctx, p.Key)
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.nsKey(p.NS), p.Key)
	pipe.SAdd(ctx, s.nsIndexKey(), p.NS)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("index entry in redis: %w", err)
	}

	return &entry, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*model.CacheEntry, error) {
	data, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry from redis: %w", err)
	}

	var e model.CacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) List(ctx context.Context, p ListParams) ([]model.CacheEntry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.ExportAll(ctx, p.NS)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *RedisStore) Search(ctx context.Context, p SearchParams) ([]model.CacheEntry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.ExportAll(ctx, p.NS)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(entries)

	var matched []model.CacheEntry
	for _, e := range entries {
		if strings.Contains(e.Key, p.Query) || strings.Contains(e.Value, p.Query) {
			matched = append(matched, e)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func (s *RedisStore) Rm(ctx context.Context, p RmParams) (int, error) {
	switch {
	case p.Key != "":
		e, err := s.Get(ctx, p.Key)
		if err != nil {
			return 0, err
		}
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, s.entryKey(p.Key))
		pipe.SRem(ctx, s.nsKey(e.NS), p.Key)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("delete entry from redis: %w", err)
		}
		return 1, nil
	case p.NS != "":
		keys, err := s.client.SMembers(ctx, s.nsKey(p.NS)).Result()
		if err != nil {
			return 0, fmt.Errorf("list namespace keys: %w", err)
		}
		pipe := s.client.TxPipeline()
		for _, k := range keys {
			pipe.Del(ctx, s.entryKey(k))
		}
		pipe.Del(ctx, s.nsKey(p.NS))
		pipe.SRem(ctx, s.nsIndexKey(), p.NS)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("delete namespace from redis: %w", err)
		}
		return len(keys), nil
	default:
		return 0, errors.New("key or namespace is required")
	}
}

func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: "redis", Location: s.client.Options().Addr}

	namespaces, err := s.client.SMembers(ctx, s.nsIndexKey()).Result()
	if err != nil {
		return st, fmt.Errorf("list namespaces: %w", err)
	}
	for _, ns := range namespaces {
		n, err := s.client.SCard(ctx, s.nsKey(ns)).Result()
		if err != nil {
			return st, err
		}
		if n == 0 {
			continue
		}
		st.Namespaces = append(st.Namespaces, NamespaceStats{NS: ns, Count: int(n)})
		st.TotalEntries += int(n)
	}
	sort.Slice(st.Namespaces, func(i, j int) bool {
		if st.Namespaces[i].Count != st.Namespaces[j].Count {
			return st.Namespaces[i].Count > st.Namespaces[j].Count
		}
		return st.Namespaces[i].NS < st.Namespaces[j].NS
	})
	return st, nil
}

func (s *RedisStore) ExportAll(ctx context.Context, ns string) ([]model.CacheEntry, error) {
	var namespaces []string
	if ns != "" {
		namespaces = []string{ns}
	} else {
		var err error
		namespaces, err = s.client.SMembers(ctx, s.nsIndexKey()).Result()
		if err != nil {
			return nil, fmt.Errorf("list namespaces: %w", err)
		}
	}

	var entries []model.CacheEntry
	for _, n := range namespaces {
		keys, err := s.client.SMembers(ctx, s.nsKey(n)).Result()
		if err != nil {
			return nil, fmt.Errorf("list namespace keys: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		redisKeys := make([]string, len(keys))
		for i, k := range keys {
			redisKeys[i] = s.entryKey(k)
		}
		vals, err := s.client.MGet(ctx, redisKeys...).Result()
		if err != nil {
			return nil, fmt.Errorf("load entries: %w", err)
		}
		for _, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var e model.CacheEntry
			if err := json.Unmarshal([]byte(str), &e); err != nil {
				return nil, fmt.Errorf("unmarshal entry: %w", err)
			}
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NS != entries[j].NS {
			return entries[i].NS < entries[j].NS
		}
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sortNewestFirst(entries []model.CacheEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
}
