package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Options select and configure a backend. The zero value opens a
// FileCache in Dir.
type Options struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	SQLitePath string `toml:"sqlite_path"`
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: dir is required")
		}
		return NewFileCache(opts.Dir)
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		addr := opts.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = "magnetgrid:"
		}
		return NewRedisCache(ctx, addr, opts.RedisPassword, opts.RedisDB, prefix)
	case BackendMongo:
		uri := opts.MongoURI
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		db := opts.MongoDatabase
		if db == "" {
			db = "magnetgrid"
		}
		coll := opts.MongoCollection
		if coll == "" {
			coll = "layouts"
		}
		return NewMongoCache(ctx, uri, db, coll)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			if opts.Dir == "" {
				return nil, fmt.Errorf("sqlite cache: sqlite_path or dir is required")
			}
			path = filepath.Join(opts.Dir, "magnetgrid.db")
		}
		return NewSQLiteCache(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
