package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/console?sslmode=disable", migrateURL("postgres://u:p@db:5432/console?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/console", migrateURL("postgresql://u@db/console"))
	assert.Equal(t, "pgx5://u@db/console", migrateURL("pgx5://u@db/console"))
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
