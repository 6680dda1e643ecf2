package db_test

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/db"
	"pomodoro/migrations"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nested", "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database, migrations.Server()))
	require.NoError(t, db.RunMigrations(database, migrations.Server()))

	var applied int
	require.NoError(t, database.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)

	_, err = database.Exec(`SELECT id, title FROM task_items LIMIT 1`)
	assert.NoError(t, err)
}

func TestRunMigrationsRollsBackBrokenFile(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "broken.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	files := fstest.MapFS{
		"0001_ok.sql":     {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"0002_broken.sql": {Data: []byte(`CREATE TABLE nope (`)},
		"README.md":       {Data: []byte(`ignored`)},
	}

	err = db.RunMigrations(database, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken.sql")

	var applied int
	require.NoError(t, database.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}
