package testutil

import (
	"testing"

	"github.com/testcontainers/testcontainers-go/wait"
)

var mongoContainer sharedContainer

// GetMongoURI returns the connection URI of a shared MongoDB container.
func GetMongoURI(t *testing.T) string {
	t.Helper()
	endpoint := mongoContainer.get(t, containerSpec{
		image: "mongo:7",
		port:  "27017/tcp",
		wait: wait.ForAll(
			wait.ForListeningPort("27017/tcp"),
			wait.ForLog("Waiting for connections"),
		),
	})
	return "mongodb://" + endpoint
}
