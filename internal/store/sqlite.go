package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/space-dashboard/internal/model"
)

// Fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    dbPath,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// rand.Rand is not safe for concurrent use.
func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		id          TEXT PRIMARY KEY,
		ns          TEXT NOT NULL,
		key         TEXT NOT NULL UNIQUE,
		value       TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cache_entries_ns ON cache_entries(ns);
	CREATE INDEX IF NOT EXISTS idx_cache_entries_created ON cache_entries(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.CacheEntry, error) {
	if p.Key == "" {
		return nil, errors.New("key is required")
	}
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (id, ns, key, value, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		s.newID(), p.NS, p.Key, p.Value, now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	return s.Get(ctx, p.Key)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*model.CacheEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, ns, key, value, created_at FROM cache_entries WHERE key = ?`, key)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.CacheEntry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.NS != "" {
		where = append(where, "ns = ?")
		args = append(args, p.NS)
	}

	query := fmt.Sprintf(`
		SELECT id, ns, key, value, created_at
		FROM cache_entries
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryEntries(ctx, query, args...)
}

func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.CacheEntry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	like := "%" + p.Query + "%"
	where := []string{"(key LIKE ? OR value LIKE ?)"}
	args := []interface{}{like, like}
	if p.NS != "" {
		where = append(where, "ns = ?")
		args = append(args, p.NS)
	}

	query := fmt.Sprintf(`
		SELECT id, ns, key, value, created_at
		FROM cache_entries
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryEntries(ctx, query, args...)
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) (int, error) {
	var res sql.Result
	var err error
	switch {
	case p.Key != "":
		res, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, p.Key)
	case p.NS != "":
		res, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE ns = ?`, p.NS)
	default:
		return 0, errors.New("key or namespace is required")
	}
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n == 0 && p.Key != "" {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, p.Key)
	}
	return int(n), nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: "sqlite", Location: s.path}

	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&st.TotalEntries)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ns, COUNT(*) AS cnt
		FROM cache_entries
		GROUP BY ns ORDER BY cnt DESC, ns`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ns NamespaceStats
		if err := rows.Scan(&ns.NS, &ns.Count); err != nil {
			return st, err
		}
		st.Namespaces = append(st.Namespaces, ns)
	}

	return st, rows.Err()
}

// ExportAll returns all entries, optionally filtered by namespace.
func (s *SQLiteStore) ExportAll(ctx context.Context, ns string) ([]model.CacheEntry, error) {
	query := `SELECT id, ns, key, value, created_at FROM cache_entries`
	var args []interface{}
	if ns != "" {
		query += ` WHERE ns = ?`
		args = append(args, ns)
	}
	query += ` ORDER BY ns, key`
	return s.queryEntries(ctx, query, args...)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...interface{}) ([]model.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CacheEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (model.CacheEntry, error) {
	var e model.CacheEntry
	var createdAt string

	if err := row.Scan(&e.ID, &e.NS, &e.Key, &e.Value, &createdAt); err != nil {
		return e, err
	}
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return e, nil
}
