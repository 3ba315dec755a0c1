package persistence

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/petrijr/aslflow/internal/testutil"
)

const prefix = "aslflow:test:"

type RedisStoreTestSuite struct {
	suite.Suite
	endpoint string
	store    *RedisDefinitionStore
	client   *redis.Client
	ctx      context.Context
}

func TestRedisTestSuite(t *testing.T) {
	testsuite := new(RedisStoreTestSuite)
	testsuite.endpoint = testutil.GetRedisAddress(t)
	initTestRedisStore(t, testsuite)
	suite.Run(t, testsuite)
}

func (r *RedisStoreTestSuite) SetupTest() {
	// Clean up all keys with this prefix.
	iter := r.client.Scan(r.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(r.ctx) {
		err := r.client.Del(r.ctx, iter.Val()).Err()
		r.NoErrorf(err, "redis DEL %q failed: %v", iter.Val(), err)
	}
	r.NoError(iter.Err(), "redis SCAN failed")
}

// initTestRedisStore connects to Redis using the address held by ts and
// fills ts with a RedisDefinitionStore using a test-specific prefix.
func initTestRedisStore(t *testing.T, ts *RedisStoreTestSuite) {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: ts.endpoint,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	ts.client = client
	ts.ctx = context.Background()

	if err := client.Ping(ts.ctx).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}

	ts.store = NewRedisDefinitionStore(client, prefix)
}

func (r *RedisStoreTestSuite) TestRedisDefinitionStore_Contract() {
	exerciseDefinitionStore(r.T(), r.store, "order-flow")
}

func (r *RedisStoreTestSuite) TestRedisDefinitionStore_ListNames() {
	r.Require().NoError(r.store.SaveDefinition(r.ctx, sampleDefinition("a", "1", "{}", timeZero())))
	r.Require().NoError(r.store.SaveDefinition(r.ctx, sampleDefinition("b", "1", "{}", timeZero())))

	names, err := r.store.ListNames(r.ctx)
	r.Require().NoError(err)
	r.ElementsMatch([]string{"a", "b"}, names)
}
