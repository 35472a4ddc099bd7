package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "0001_init.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrations_SeedDefaultRoles(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	var all strings.Builder
	for _, name := range names {
		content, err := migrationFiles.ReadFile("migrations/" + name)
		require.NoError(t, err)
		all.Write(content)
	}

	sql := all.String()
	for _, role := range []string{"'user'", "'author'", "'admin'"} {
		assert.Contains(t, sql, role)
	}
	assert.Contains(t, sql, "ON DELETE CASCADE")
}
