package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Path is the database file for the file and sqlite backends.
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns a file store under dir.
func DefaultConfig(dir string) Config {
	return Config{
		Backend:       BackendFile,
		Path:          filepath.Join(dir, "mindmaps.json"),
		RedisAddr:     "localhost:6379",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "mindmap",
	}
}

// Open creates the Store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, errors.InvalidInput("file store needs a path")
		}
		return opened(NewFile(cfg.Path))
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.InvalidInput("sqlite store needs a path")
		}
		return opened(NewSQLite(ctx, cfg.Path))
	case BackendRedis:
		return opened(NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	case BackendMongo:
		return opened(NewMongo(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q (want one of %s)",
			cfg.Backend, strings.Join(Backends, ", "))
	}
}

// opened converts a concrete constructor result without leaking a typed nil.
func opened[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
