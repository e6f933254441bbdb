package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()

	gdb, err := Open(ctx, Options{Driver: "sqlite", DSN: ":memory:", Quiet: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))

	for _, table := range []any{
		&models.User{}, &models.Session{}, &models.Workspace{}, &models.WorkspaceRole{},
		&models.WorkspaceMember{}, &models.Invitation{}, &models.Status{}, &models.Todo{},
	} {
		assert.True(t, gdb.Migrator().HasTable(table))
	}

	require.NoError(t, Ping(ctx, gdb))
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{Driver: "sqlite"})
	require.Error(t, err)

	_, err = Open(ctx, Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
