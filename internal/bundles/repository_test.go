package bundles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateTestBundle(t, db, "gid://shopify/DiscountAutomaticNode/1")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.DiscountGid, found.DiscountGid)
	assert.Equal(t, 31, found.PercentOff)
	assert.Equal(t, "big1-31off", found.Title)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindAllNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := mustCreateTestBundle(t, db, "gid://shopify/DiscountAutomaticNode/1")
	second := mustCreateTestBundle(t, db, "gid://shopify/DiscountAutomaticNode/2")
	// force distinct ordering keys
	require.NoError(t, db.Model(second).Update("created_at", first.CreatedAt.Add(time.Second)).Error)

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestRepositoryDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateTestBundle(t, db, "gid://shopify/DiscountAutomaticNode/1")
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
