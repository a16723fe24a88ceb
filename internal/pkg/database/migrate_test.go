package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}
