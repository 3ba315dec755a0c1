package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "aslflow"
	pgPassword = "aslflow"
	pgDatabase = "aslflow_test"
)

var postgresContainer sharedContainer

func postgresDSN(hostPort string) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", pgUser, pgPassword, hostPort, pgDatabase)
}

// GetPostgresDSN returns a DSN for a shared PostgreSQL container, usable
// with the "pgx" driver.
func GetPostgresDSN(t *testing.T) string {
	t.Helper()
	endpoint := postgresContainer.get(t, containerSpec{
		image: "postgres:16",
		port:  "5432/tcp",
		env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		wait: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("ready to accept connections"),
			// The log line appears once during initdb too; only a query proves readiness.
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return postgresDSN(host + ":" + port.Port())
			}).WithQuery("SELECT 1"),
		).WithDeadline(2 * time.Minute),
	})
	return postgresDSN(endpoint)
}
