package testing

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/2beens/stargym/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const PostgresTestDBName = "stargym"

// SkipWithoutDocker skips container backed tests unless STARGYM_DOCKER_TESTS is set.
func SkipWithoutDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("STARGYM_DOCKER_TESTS") == "" {
		t.Skip("STARGYM_DOCKER_TESTS not set, skipping docker backed tests")
	}
}

func newDockerPool() (*dockertest.Pool, error) {
	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("create dockertest pool: %w", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("ping docker: %w", err)
	}
	return dockerPool, nil
}

// RunPostgres runs a throwaway postgres container with the stargym schema applied
// and returns its host port. The returned teardown removes the container.
func RunPostgres(ctx context.Context) (string, func(), error) {
	dockerPool, err := newDockerPool()
	if err != nil {
		return "", nil, err
	}

	resource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + PostgresTestDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", nil, fmt.Errorf("dockerpool run postgres: %w", err)
	}

	purge := func() {
		if err := dockerPool.Purge(resource); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	}

	port := resource.GetPort("5432/tcp")
	var sqlDB *sql.DB
	if err := dockerPool.Retry(func() error {
		sqlDB, err = sql.Open("postgres", postgresDSN(port))
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}); err != nil {
		purge()
		return "", nil, fmt.Errorf("connect to db: %w", err)
	}
	defer sqlDB.Close()

	if _, err := sqlDB.ExecContext(ctx, db.Schema); err != nil {
		purge()
		return "", nil, fmt.Errorf("run init script: %w", err)
	}

	return port, purge, nil
}

// StartPostgres is RunPostgres plus a connection pool to the container.
// The returned teardown closes the pool and removes the container.
func StartPostgres(ctx context.Context) (*pgxpool.Pool, func(), error) {
	port, purge, err := RunPostgres(ctx)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, postgresDSN(port))
	if err != nil {
		purge()
		return nil, nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, func() {
		pool.Close()
		purge()
	}, nil
}

func postgresDSN(port string) string {
	return fmt.Sprintf(
		"postgres://postgres@localhost:%s/%s?sslmode=disable",
		port, PostgresTestDBName,
	)
}
