package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/telco360/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for _, base := range []string{"000001_create_orders", "000002_create_telco_dataset"} {
		assert.True(t, names[base+".up.sql"], base)
		assert.True(t, names[base+".down.sql"], base)
	}
}

func TestApplySqliteCreatesTables(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Apply(conn, "sqlite"))
	for _, table := range []string{"orders", "telco_customers", "telco_usage_history"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
