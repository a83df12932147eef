// Package testhelper provides a shared PostgreSQL for repository and
// end-to-end tests. Every test gets its own pool over one migrated database.
package testhelper

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/taskboard-backend/migrations"
)

// DSNEnv points the tests at an existing database instead of a container.
const DSNEnv = "TASKBOARD_TEST_DSN"

var (
	dbOnce  sync.Once
	dbDSN   string
	dbSetup error
)

// SetupTestDB returns a pool on the migrated test database. The database is
// prepared once per process; the pool is closed when t ends. Skipped under
// -short.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("testhelper: postgres tests skipped in -short mode")
	}

	dbOnce.Do(func() { dbDSN, dbSetup = prepareDatabase() })
	if dbSetup != nil {
		t.Fatalf("testhelper: prepare database: %v", dbSetup)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbDSN)
	if err != nil {
		t.Fatalf("testhelper: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func prepareDatabase() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		var err error
		if dsn, err = startPostgres(ctx); err != nil {
			return "", err
		}
	}

	if _, err := migrations.Up(ctx, dsn); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	return dsn, nil
}

func startPostgres(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "taskboard",
				"POSTGRES_PASSWORD": "taskboard",
				"POSTGRES_DB":       "taskboard_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return "", fmt.Errorf("resolve postgres endpoint: %w", err)
	}

	return fmt.Sprintf("postgres://taskboard:taskboard@%s/taskboard_test?sslmode=disable", endpoint), nil
}
