package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SuperAdminID is the super admin seeded into every test database.
const SuperAdminID = "super-admin"

// TestDB wraps a test database connection with cleanup helpers
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
	DSN       string
}

// SetupTestDB creates a PostgreSQL testcontainer, bootstraps the schema and
// returns a connected TestDB
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "keyforge_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/keyforge_test?sslmode=disable", host, port.Port())

	db, err := database.New(ctx, database.DefaultConfig(dsn), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.NewBootstrapper(db, SuperAdminID, zerolog.Nop()).Ensure(ctx); err != nil {
		t.Fatalf("failed to bootstrap database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		DB:        db,
		Container: container,
		DSN:       dsn,
	}
}

// CleanTables truncates all tables and reseeds the super admin grant
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"keys",
		"applications",
		"supports",
	}

	for _, table := range tables {
		_, err := tdb.DB.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	if err := database.NewBootstrapper(tdb.DB, SuperAdminID, zerolog.Nop()).Ensure(ctx); err != nil {
		t.Fatalf("failed to reseed super admin: %v", err)
	}
}
