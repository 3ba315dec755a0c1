package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// containerSpec describes one backing service for the store tests.
type containerSpec struct {
	image string
	port  string
	env   map[string]string
	wait  wait.Strategy
}

// sharedContainer is started at most once per test binary. The
// testcontainers reaper removes it when the process exits, so no test
// owns it.
type sharedContainer struct {
	once     sync.Once
	endpoint string
	err      error
}

// get returns host:port of the container, starting it on first use.
// Container-backed tests are skipped in -short mode and when no Docker
// daemon is available.
func (c *sharedContainer) get(t *testing.T, spec containerSpec) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	c.once.Do(func() {
		c.endpoint, c.err = startContainer(spec)
	})
	if c.err != nil {
		t.Skipf("%s unavailable: %v", spec.image, c.err)
	}
	return c.endpoint
}

func startContainer(spec containerSpec) (string, error) {
	// CI hosts may need to pull the image first.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	opts := []testcontainers.ContainerCustomizer{
		testcontainers.WithExposedPorts(spec.port),
		testcontainers.WithWaitStrategy(spec.wait),
	}
	if len(spec.env) > 0 {
		opts = append(opts, testcontainers.WithEnv(spec.env))
	}

	ctr, err := testcontainers.Run(ctx, spec.image, opts...)
	if err != nil {
		return "", err
	}
	endpoint, err := ctr.Endpoint(ctx, "")
	if err != nil {
		_ = ctr.Terminate(context.Background())
		return "", err
	}
	return endpoint, nil
}
