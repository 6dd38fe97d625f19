// Package cache provides the byte stores behind layout persistence.
//
// A [Cache] is a flat key/value store with optional expiry. Backends:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [MemoryCache]: in-process map (tests, server default)
//   - [RedisCache]: Redis via go-redis
//   - [MongoCache]: one document per key in a MongoDB collection
//   - [SQLiteCache]: a single-table SQLite database
//   - [NullCache]: stores nothing
//
// [Open] builds a backend from [Options]. Keys are produced by a [Keyer] so
// that different kinds of entries never collide and tenants can be
// isolated with [ScopedKeyer].
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default TTLs. Layouts never expire; cached plans are cheap to recompute.
const (
	TTLLayout time.Duration = 0
	TTLPlan                 = 24 * time.Hour
)

// Cache is a key/value byte store.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss, which is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key a saved layout is stored under.
	LayoutKey(name string) string

	// PlanKey returns the key for a cached placement plan.
	PlanKey(layoutHash string, opts PlanKeyOpts) string
}

// PlanKeyOpts are the inputs of a plan besides the layout itself.
type PlanKeyOpts struct {
	FieldID string  `json:"field"`
	Width   float64 `json:"width"`
	Row     int     `json:"row"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<name>".
func (DefaultKeyer) LayoutKey(name string) string {
	return "layout:" + name
}

// PlanKey returns "plan:<digest>" over the layout hash and the plan inputs.
func (DefaultKeyer) PlanKey(layoutHash string, opts PlanKeyOpts) string {
	data, _ := json.Marshal(struct {
		Layout string      `json:"layout"`
		Opts   PlanKeyOpts `json:"opts"`
	}{layoutHash, opts})
	return "plan:" + Digest(data)
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
