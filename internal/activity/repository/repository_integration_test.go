//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/eco-catalog/internal/activity/domain"
	productdomain "github.com/tair/eco-catalog/internal/product/domain"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/testinfra"
)

type ledgerFixture struct {
	pg       *testinfra.PostgresContainer
	repo     *GormActivityRepository
	user     userdomain.User
	products []productdomain.Product
}

func newLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	pg := testinfra.NewPostgres(t)
	require.NoError(t, pg.DB.AutoMigrate(&userdomain.User{}, &productdomain.Product{}))

	repo := NewGormActivityRepository(pg.DB)
	require.NoError(t, repo.AutoMigrate())

	user := userdomain.User{Name: "Ada", Email: "ada@example.com", Password: "x", Age: 30, Gender: "Female"}
	require.NoError(t, pg.DB.Create(&user).Error)
	products := []productdomain.Product{{Title: "Steel Bottle"}, {Title: "Bamboo Toothbrush"}}
	require.NoError(t, pg.DB.Create(&products).Error)

	return &ledgerFixture{pg: pg, repo: repo, user: user, products: products}
}

func TestIntegrationActivityLedger(t *testing.T) {
	f := newLedger(t)
	ctx := context.Background()
	uid := f.user.ID
	bottle, brush := f.products[0].ID, f.products[1].ID

	t.Run("add to cart twice leaves one row with quantity 2", func(t *testing.T) {
		first, err := f.repo.IncrementCart(ctx, uid, bottle, 1)
		require.NoError(t, err)
		second, err := f.repo.IncrementCart(ctx, uid, bottle, 1)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, second.Quantity)

		var count int64
		require.NoError(t, f.pg.DB.Model(&domain.CartEntry{}).Where("user_id = ?", uid).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("concurrent adds never duplicate", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.repo.IncrementCart(ctx, uid, brush, 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		entries, err := f.repo.ListCart(ctx, uid)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, bottle, entries[0].Item.ProductID, "insertion order")
		assert.Equal(t, 8, entries[1].Item.Quantity)
		assert.Equal(t, "Bamboo Toothbrush", entries[1].Product.Title)
		assert.Equal(t, domain.KindCart, entries[1].Kind)
	})

	t.Run("set quantity", func(t *testing.T) {
		entry, err := f.repo.SetCartQuantity(ctx, uid, bottle, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, entry.Quantity)

		removed, err := f.repo.DeleteCartEntry(ctx, uid, bottle)
		require.NoError(t, err)
		assert.True(t, removed)
		removed, err = f.repo.DeleteCartEntry(ctx, uid, bottle)
		require.NoError(t, err, "absent rows are a no-op")
		assert.False(t, removed)

		_, err = f.repo.SetCartQuantity(ctx, uid, bottle, 5)
		assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.repo.IncrementCart(ctx, uid, 9999, 1)
		assert.True(t, apperror.Is(err, apperror.CodeNotFound))

		_, err = f.repo.UpsertView(ctx, uid, 9999, time.Now())
		assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	})

	t.Run("wishlist add is idempotent", func(t *testing.T) {
		first, err := f.repo.InsertWishlist(ctx, uid, brush)
		require.NoError(t, err)
		second, err := f.repo.InsertWishlist(ctx, uid, brush)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

		entries, err := f.repo.ListWishlist(ctx, uid)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		removed, err := f.repo.DeleteWishlistEntry(ctx, uid, brush)
		require.NoError(t, err)
		assert.True(t, removed)
		entries, err = f.repo.ListWishlist(ctx, uid)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("repeat view moves to front", func(t *testing.T) {
		t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		first, err := f.repo.UpsertView(ctx, uid, bottle, t0)
		require.NoError(t, err)
		_, err = f.repo.UpsertView(ctx, uid, brush, t0.Add(time.Minute))
		require.NoError(t, err)
		again, err := f.repo.UpsertView(ctx, uid, bottle, t0.Add(2*time.Minute))
		require.NoError(t, err)

		assert.Equal(t, first.ID, again.ID)
		assert.True(t, t0.Add(2*time.Minute).Equal(again.ViewedAt))

		history, err := f.repo.ListViews(ctx, uid, 0, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, bottle, history[0].Item.ProductID)
		assert.Equal(t, brush, history[1].Item.ProductID)

		history, err = f.repo.ListViews(ctx, uid, 1, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, brush, history[0].Item.ProductID, "second page")
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := f.repo.IncrementCart(ctx, 9999, bottle, 1)
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized), "got %v", err)

		_, err = f.repo.InsertWishlist(ctx, 9999, bottle)
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized), "got %v", err)
	})

	t.Run("deleting a product cascades", func(t *testing.T) {
		require.NoError(t, f.pg.DB.Delete(&productdomain.Product{}, brush).Error)

		history, err := f.repo.ListViews(ctx, uid, 0, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, bottle, history[0].Item.ProductID)
	})
}
