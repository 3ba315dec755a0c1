package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/aslflow/pkg/api"
)

// RedisDefinitionStore is a DefinitionStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>def:<name>:rev:<revision>  => gob-encoded definitionPayload
//	<prefix>def:<name>:revs            => LIST of revision IDs, oldest first
//	<prefix>idx:names                  => SET of definition names
type RedisDefinitionStore struct {
	client *redis.Client
	prefix string
}

var _ DefinitionStore = (*RedisDefinitionStore)(nil)

// NewRedisDefinitionStore creates a RedisDefinitionStore.
// prefix is optional but recommended (e.g. "aslflow:").
func NewRedisDefinitionStore(client *redis.Client, prefix string) *RedisDefinitionStore {
	if prefix == "" {
		prefix = "aslflow:"
	}
	return &RedisDefinitionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisDefinitionStore) keyRevision(name, revision string) string {
	return s.prefix + "def:" + name + ":rev:" + revision
}

func (s *RedisDefinitionStore) keyRevisions(name string) string {
	return s.prefix + "def:" + name + ":revs"
}

func (s *RedisDefinitionStore) keyNames() string {
	return s.prefix + "idx:names"
}

func (s *RedisDefinitionStore) SaveDefinition(ctx context.Context, def api.StoredDefinition) error {
	data, err := EncodeDefinition(def)
	if err != nil {
		return err
	}

	// SETNX guards against overwriting an existing revision.
	created, err := s.client.SetNX(ctx, s.keyRevision(def.Name, def.Revision), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return ErrRevisionExists
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.keyRevisions(def.Name), def.Revision)
	pipe.SAdd(ctx, s.keyNames(), def.Name)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisDefinitionStore) GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error) {
	data, err := s.client.Get(ctx, s.keyRevision(name, revision)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return api.StoredDefinition{}, ErrDefinitionNotFound
		}
		return api.StoredDefinition{}, err
	}
	return DecodeDefinition(data)
}

func (s *RedisDefinitionStore) GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error) {
	rev, err := s.client.LIndex(ctx, s.keyRevisions(name), -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return api.StoredDefinition{}, ErrDefinitionNotFound
		}
		return api.StoredDefinition{}, err
	}
	return s.GetDefinition(ctx, name, rev)
}

func (s *RedisDefinitionStore) ListRevisions(ctx context.Context, name string) ([]string, error) {
	revs, err := s.client.LRange(ctx, s.keyRevisions(name), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = make([]string, 0)
	}
	return revs, nil
}

// ListNames returns every definition name known to the store.
func (s *RedisDefinitionStore) ListNames(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.keyNames()).Result()
}
