//go:build integration

package dao

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aya-platform/volunteer-hub/internal/db"
)

// openPostgres starts a throwaway Postgres container. Run with
// `go test -tags integration ./...` and a reachable Docker daemon.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=hub",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=volunteer_hub",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("postgres://hub:secret@%s/volunteer_hub?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gdb *gorm.DB
	err = pool.Retry(func() error {
		var err error
		if gdb, err = db.OpenPostgresWithURL(dsn); err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(gdb))

	return gdb
}

func TestPostgres(t *testing.T) {
	gdb := openPostgres(t)

	t.Run("users", func(t *testing.T) { runUserDAOTests(t, gdb) })
	t.Run("events", func(t *testing.T) { runEventDAOTests(t, gdb) })
	t.Run("organization", func(t *testing.T) { runOrganizationDAOTests(t, gdb) })
}
