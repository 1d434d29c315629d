// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AliakbarCal15/Internship-Task-39/internal/db"
)

// Open returns a migrated, empty sqlite database that is closed when t ends.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

// OpenSeeded is Open plus the fixture catalog and coupons.
func OpenSeeded(t *testing.T) *gorm.DB {
	t.Helper()

	gdb := Open(t)
	require.NoError(t, db.Seed(context.Background(), gdb))
	return gdb
}
