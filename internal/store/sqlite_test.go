package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/space-dashboard/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e, err := s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-01_en", Value: `{"title":"M31"}`})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if e.ID == "" {
		t.Error("expected non-empty ID")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.Get(ctx, "nasa_2024-05-01_en")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != `{"title":"M31"}` {
		t.Errorf("unexpected value %q", got.Value)
	}
	if got.NS != "nasa" {
		t.Errorf("expected ns nasa, got %q", got.NS)
	}
}

func TestPutFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.Put(ctx, PutParams{NS: "nasa", Key: "k", Value: "v1"})
	second, err := s.Put(ctx, PutParams{NS: "nasa", Key: "k", Value: "v2"})
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if second.Value != "v1" {
		t.Errorf("expected first value to be kept, got %q", second.Value)
	}
	if second.ID != first.ID {
		t.Errorf("expected same ID, got %s and %s", first.ID, second.ID)
	}
}

func TestPutRequiresKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Put(context.Background(), PutParams{NS: "nasa"}); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})
	s.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	s.Put(ctx, PutParams{NS: "astronaut", Key: "c", Value: "3"})

	all, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Key != "c" {
		t.Errorf("expected newest entry first, got %q", all[0].Key)
	}

	nasa, _ := s.List(ctx, ListParams{NS: "nasa"})
	if len(nasa) != 2 {
		t.Errorf("expected 2 nasa entries, got %d", len(nasa))
	}

	limited, _ := s.List(ctx, ListParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 entry with limit, got %d", len(limited))
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-01_en", Value: `{"title":"Andromeda"}`})
	s.Put(ctx, PutParams{NS: "nasa", Key: "nasa_2024-05-02_en", Value: `{"title":"Orion"}`})

	byValue, err := s.Search(ctx, SearchParams{Query: "Orion"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byValue) != 1 || byValue[0].Key != "nasa_2024-05-02_en" {
		t.Errorf("unexpected search result %+v", byValue)
	}

	byKey, _ := s.Search(ctx, SearchParams{Query: "2024-05", NS: "nasa"})
	if len(byKey) != 2 {
		t.Errorf("expected 2 key matches, got %d", len(byKey))
	}

	none, _ := s.Search(ctx, SearchParams{Query: "Orion", NS: "astronaut"})
	if len(none) != 0 {
		t.Errorf("expected namespace filter to exclude results, got %d", len(none))
	}
}

func TestRm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})
	s.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	s.Put(ctx, PutParams{NS: "nasa_today", Key: "c", Value: "3"})

	n, err := s.Rm(ctx, RmParams{Key: "a"})
	if err != nil || n != 1 {
		t.Fatalf("rm key: n=%d err=%v", n, err)
	}
	if _, err := s.Rm(ctx, RmParams{Key: "a"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing twice, got %v", err)
	}

	n, err = s.Rm(ctx, RmParams{NS: "nasa"})
	if err != nil || n != 1 {
		t.Fatalf("rm ns: n=%d err=%v", n, err)
	}
	if _, err := s.Get(ctx, "c"); err != nil {
		t.Errorf("other namespace should survive: %v", err)
	}

	if _, err := s.Rm(ctx, RmParams{}); err == nil {
		t.Error("expected error without key or namespace")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})
	s.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	s.Put(ctx, PutParams{NS: "astronaut", Key: "c", Value: "3"})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", st.Backend)
	}
	if st.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", st.TotalEntries)
	}
	if len(st.Namespaces) != 2 || st.Namespaces[0].NS != "nasa" || st.Namespaces[0].Count != 2 {
		t.Errorf("unexpected namespaces %+v", st.Namespaces)
	}
	if st.Location == "" {
		t.Error("expected db location")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	src.Put(ctx, PutParams{NS: "nasa", Key: "b", Value: "2"})
	src.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "1"})
	src.Put(ctx, PutParams{NS: "astronaut", Key: "c", Value: "3"})

	nasa, err := src.ExportAll(ctx, "nasa")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(nasa) != 2 || nasa[0].Key != "a" {
		t.Errorf("expected export sorted by key, got %+v", nasa)
	}

	entries, _ := src.ExportAll(ctx, "")
	dst := newTestStore(t)
	dst.Put(ctx, PutParams{NS: "nasa", Key: "a", Value: "local"})

	n, err := Import(ctx, dst, entries)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported (one skipped), got %d", n)
	}
	got, _ := dst.Get(ctx, "a")
	if got.Value != "local" {
		t.Errorf("import should not overwrite existing key, got %q", got.Value)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "cache.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to exist")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Put(ctx, PutParams{NS: "nasa", Key: "k", Value: "v"})
	s.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var got *model.CacheEntry
	if got, err = s2.Get(ctx, "k"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Value != "v" {
		t.Errorf("expected v, got %q", got.Value)
	}
}
