package testutil

import (
	"testing"

	"github.com/testcontainers/testcontainers-go/wait"
)

var redisContainer sharedContainer

// GetRedisAddress returns host:port of a shared Redis container.
func GetRedisAddress(t *testing.T) string {
	t.Helper()
	return redisContainer.get(t, containerSpec{
		image: "redis:7",
		port:  "6379/tcp",
		wait: wait.ForAll(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		),
	})
}
