package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/space-dashboard/internal/config"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, RedisKeyPrefix)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_PutGet(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	e, err := s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-01_pt", Value: `{"title":"Galáxia"}`})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	assert.True(t, mr.Exists("space-dashboard:entry:nasa_2024-05-01_pt"))
	members, err := mr.SMembers("space-dashboard:ns:nasa")
	require.NoError(t, err)
	assert.Equal(t, []string{"nasa_2024-05-01_pt"}, members)

	got, err := s.Get(ctx, "nasa_2024-05-01_pt")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Galáxia"}`, got.Value)
	assert.Equal(t, "nasa", got.NS)
	assert.Equal(t, time.Duration(0), mr.TTL("space-dashboard:entry:nasa_2024-05-01_pt"))
}

func TestRedisStore_FirstWriteWins(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	first, err := s.Put(ctx, PutParams{NS: "nasa", Key: "k", Value: "v1"})
	require.NoError(t, err)
	second, err := s.Put(ctx, PutParams{NS: "nasa", Key: "k", Value: "v2"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v1", second.Value)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	s, _ := setupTestRedis(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListSearchStats(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-01_en", Value: "Andromeda"})
	require.NoError(t, err)
	_, err = s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-02_en", Value: "Orion"})
	require.NoError(t, err)
	_, err = s.Put(ctx, PutParams{NS: "astronaut", Key: "astronaut_of_the_day_2024-05-02", Value: "{}"})
	require.NoError(t, err)

	all, err := s.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	nasa, err := s.List(ctx, ListParams{NS: "nasa", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, nasa, 1)

	found, err := s.Search(ctx, SearchParams{Query: "Orion"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "nasa_2024-05-02_en", found[0].Key)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis", st.Backend)
	assert.Equal(t, 3, st.TotalEntries)
	assert.Equal(t, []NamespaceStats{{NS: "nasa", Count: 2}, {NS: "astronaut", Count: 1}}, st.Namespaces)
}

func TestRedisStore_Rm(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	_, _ = s.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})
	_, _ = s.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	_, _ = s.Put(ctx, PutParams{NS: "nasa_today", Key: "c", Value: "3"})

	n, err := s.Rm(ctx, RmParams{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, mr.Exists("space-dashboard:entry:a"))

	_, err = s.Rm(ctx, RmParams{Key: "a"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.Rm(ctx, RmParams{NS: "nasa"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestRedisStore_ExportImport(t *testing.T) {
	src, _ := setupTestRedis(t)
	ctx := context.Background()

	_, _ = src.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	_, _ = src.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})

	entries, err := src.ExportAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)

	dst := newTestStore(t)
	n, err := Import(ctx, dst, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.CacheConfig{Backend: "sqlite", Path: t.TempDir() + "/cache.db"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	mr := miniredis.RunT(t)
	r, err := Open(ctx, config.CacheConfig{Backend: "redis", Redis: config.RedisConfig{Addr: mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, r)
	r.Close()

	_, err = Open(ctx, config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}
