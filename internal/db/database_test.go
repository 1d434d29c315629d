package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliakbarCal15/Internship-Task-39/internal/db"
	"github.com/AliakbarCal15/Internship-Task-39/internal/db/dbtest"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

func TestOpen_RejectsEmptyDSNAndUnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.DriverSQLite, "")
	require.Error(t, err)

	_, err = db.Open(context.Background(), "oracle", "whatever")
	require.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, db.Seed(ctx, gdb))
	require.NoError(t, db.Seed(ctx, gdb))

	var products, coupons int64
	require.NoError(t, gdb.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, gdb.Model(&models.Coupon{}).Count(&coupons).Error)

	assert.EqualValues(t, len(db.SeedProducts()), products)
	assert.EqualValues(t, len(db.SeedCoupons()), coupons)
}

func TestSeed_ImagesRoundTrip(t *testing.T) {
	gdb := dbtest.OpenSeeded(t)

	var p models.Product
	require.NoError(t, gdb.First(&p, "id = ?", "1").Error)
	assert.Equal(t, "iPhone 13 Pro", p.Title)
	require.Len(t, p.Images, 1)
	assert.Contains(t, p.Images[0], "unsplash")
}

func TestMigrate_CreatesCatalogTables(t *testing.T) {
	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, db.Migrate(ctx, gdb))
	assert.True(t, gdb.Migrator().HasTable(&models.Product{}))
	assert.True(t, gdb.Migrator().HasColumn(&models.Product{}, "Images"))
	assert.True(t, gdb.Migrator().HasTable(&models.Coupon{}))
}
