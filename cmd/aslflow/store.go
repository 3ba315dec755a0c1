package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"github.com/petrijr/aslflow"
)

// openStore opens the definition store named by rawURL. The returned
// close function releases the underlying connection.
func openStore(ctx context.Context, rawURL string) (aslflow.DefinitionStore, func() error, error) {
	scheme, rest, ok := strings.Cut(rawURL, ":")
	if !ok {
		return nil, nil, fmt.Errorf("store %q: missing scheme", rawURL)
	}

	switch scheme {
	case "sqlite":
		path := strings.TrimPrefix(rest, "//")
		if path == "" {
			return nil, nil, fmt.Errorf("store %q: missing path", rawURL)
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := aslflow.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case "postgres", "postgresql":
		db, err := sql.Open("pgx", rawURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store, err := aslflow.NewPostgresStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case "redis", "rediss":
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return aslflow.NewRedisStore(client, rootFlags.redisPrefix), client.Close, nil

	case "mongodb", "mongodb+srv":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(rawURL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		store, err := aslflow.NewMongoStore(ctx, client, rootFlags.mongoDB, rootFlags.mongoColl)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		return store, closeFn, nil
	}
	return nil, nil, fmt.Errorf("store %q: unsupported scheme %q", rawURL, scheme)
}

// withStore opens the store from --store, runs fn and closes it.
func withStore(ctx context.Context, fn func(aslflow.DefinitionStore) error) error {
	store, closeFn, err := openStore(ctx, rootFlags.store)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(store)
}

// lookup returns revision of name, or the latest one when revision is empty.
func lookup(ctx context.Context, store aslflow.DefinitionStore, name, revision string) (aslflow.StoredDefinition, error) {
	if revision == "" {
		def, err := store.GetLatestDefinition(ctx, name)
		if err != nil {
			return def, fmt.Errorf("latest revision of %s: %w", name, err)
		}
		return def, nil
	}
	def, err := store.GetDefinition(ctx, name, revision)
	if err != nil {
		return def, fmt.Errorf("revision %s of %s: %w", revision, name, err)
	}
	return def, nil
}
