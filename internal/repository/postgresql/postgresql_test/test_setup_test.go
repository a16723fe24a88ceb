package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by the integration tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.RunMigrations(dsn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	t.Cleanup(setup.Close)
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
	return setup
}

// TruncateAllTables empties every table the repositories touch.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"leave_applications",
		"leave_balances",
		"leave_types",
		"clock_events",
		"attendance_records",
		"sessions",
		"users",
		"employees",
		"tenants",
		"geocode_cache",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
