package testing

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx connects to the redis pointed to by STARGYM_TEST_REDIS_HOST.
// Tests calling it are skipped when the variable is not set.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	redisHost := os.Getenv("STARGYM_TEST_REDIS_HOST")
	if redisHost == "" {
		t.Skip("STARGYM_TEST_REDIS_HOST not set, skipping redis backed test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	redisPort := os.Getenv("STARGYM_TEST_REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	t.Logf("using redis: [%s:%s]", redisHost, redisPort)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, redisPort),
		Password: os.Getenv("STARGYM_TEST_REDIS_PASS"),
		DB:       0,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	pingRes, err := rdb.Ping(ctx).Result()
	require.NoError(t, err)
	t.Logf("redis ping res: %s", pingRes)

	return ctx, rdb
}

// RunRedis runs a throwaway redis container and returns its host port.
// The returned teardown removes the container.
func RunRedis(ctx context.Context) (string, func(), error) {
	dockerPool, err := newDockerPool()
	if err != nil {
		return "", nil, err
	}

	resource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %w", err)
	}

	purge := func() {
		if err := dockerPool.Purge(resource); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	}

	port := resource.GetPort("6379/tcp")
	if err := dockerPool.Retry(func() error {
		rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort("localhost", port)})
		defer rdb.Close()
		return rdb.Ping(ctx).Err()
	}); err != nil {
		purge()
		return "", nil, fmt.Errorf("connect to redis: %w", err)
	}

	return port, purge, nil
}
