// Package store provides the device-local cache storage interface with SQLite
// and Redis implementations.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/space-dashboard/internal/model"
)

// ErrNotFound is returned when a key has no cached entry.
var ErrNotFound = errors.New("cache entry not found")

// PutParams holds parameters for storing an entry.
type PutParams struct {
	NS    string
	Key   string
	Value string
}

// ListParams holds parameters for listing entries.
type ListParams struct {
	NS    string
	Limit int
}

// SearchParams holds parameters for searching entry values.
type SearchParams struct {
	NS    string
	Query string
	Limit int
}

// RmParams holds parameters for deleting entries. An empty Key with a
// namespace removes the whole namespace.
type RmParams struct {
	NS  string
	Key string
}

// Stats holds store statistics.
type Stats struct {
	Backend      string           `json:"backend"`
	Location     string           `json:"location"`
	SizeBytes    int64            `json:"size_bytes,omitempty"`
	TotalEntries int              `json:"total_entries"`
	Namespaces   []NamespaceStats `json:"namespaces"`
}

// NamespaceStats holds per-namespace counts.
type NamespaceStats struct {
	NS    string `json:"ns"`
	Count int    `json:"count"`
}

// Store defines the cache storage interface.
type Store interface {
	// Put stores an entry unless the key already exists. The first write wins;
	// the returned entry is whatever is stored after the call.
	Put(ctx context.Context, p PutParams) (*model.CacheEntry, error)

	// Get retrieves an entry by key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) (*model.CacheEntry, error)

	// List lists entries, newest first.
	List(ctx context.Context, p ListParams) ([]model.CacheEntry, error)

	// Search finds entries whose key or value contains the query.
	Search(ctx context.Context, p SearchParams) ([]model.CacheEntry, error)

	// Rm deletes an entry or a namespace and reports how many were removed.
	Rm(ctx context.Context, p RmParams) (int, error)

	// Stats reports entry counts.
	Stats(ctx context.Context) (*Stats, error)

	// ExportAll returns every entry, optionally filtered by namespace.
	ExportAll(ctx context.Context, ns string) ([]model.CacheEntry, error)

	// Close closes the store.
	Close() error
}

// Import stores entries from an export through s. Existing keys are skipped.
func Import(ctx context.Context, s Store, entries []model.CacheEntry) (int, error) {
	imported := 0
	for _, e := range entries {
		if _, err := s.Get(ctx, e.Key); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return imported, err
		}
		if _, err := s.Put(ctx, PutParams{NS: e.NS, Key: e.Key, Value: e.Value}); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
