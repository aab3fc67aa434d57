package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/testinfra"
)

func newDryRunRepo(t *testing.T) (*GormActivityRepository, *testinfra.StatementRecorder) {
	db := testinfra.DryRunDB(t)
	rec := testinfra.RecordStatements(t, db)
	return NewGormActivityRepository(db), rec
}

func statementOn(t *testing.T, rec *testinfra.StatementRecorder, table string) string {
	t.Helper()
	for _, s := range rec.Statements() {
		if strings.Contains(s, `"`+table+`"`) {
			return s
		}
	}
	t.Fatalf("no statement on %s in %v", table, rec.Statements())
	return ""
}

func TestUpsertViewIsSingleStatement(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.UpsertView(context.Background(), 1, 2, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, rec.Statements(), 1, "associations must not be written")
	sql := rec.Last()
	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "view_events"`), sql)
	assert.Contains(t, sql, `ON CONFLICT ("user_id","product_id") DO UPDATE SET "viewed_at"="excluded"."viewed_at"`)
	assert.Contains(t, sql, "RETURNING *")
}

func TestIncrementCartAddsToExistingQuantity(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.IncrementCart(context.Background(), 1, 2, 3)
	require.NoError(t, err)

	require.Len(t, rec.Statements(), 1)
	sql := rec.Last()
	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "cart_entries"`), sql)
	assert.Contains(t, sql, `ON CONFLICT ("user_id","product_id") DO UPDATE SET`)
	assert.Contains(t, sql, `"quantity"=cart_entries.quantity + EXCLUDED.quantity`)
	assert.Contains(t, sql, "RETURNING *")
}

func TestInsertWishlistDoesNothingOnConflict(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.InsertWishlist(context.Background(), 1, 2)
	require.NoError(t, err)

	statements := rec.Statements()
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], `ON CONFLICT ("user_id","product_id") DO NOTHING`)
	assert.Contains(t, statements[1], `SELECT * FROM "wishlist_entries" WHERE user_id = 1 AND product_id = 2`)
}

func TestSetCartQuantityOnAbsentRow(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	// A dry run affects no rows, which is what an absent pair looks like.
	_, err := repo.SetCartQuantity(context.Background(), 1, 2, 5)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	sql := rec.Last()
	assert.True(t, strings.HasPrefix(sql, `UPDATE "cart_entries" SET "quantity"=5`), sql)
	assert.Contains(t, sql, "WHERE user_id = 1 AND product_id = 2")
	assert.Contains(t, sql, "RETURNING *")
}

func TestDeletesArePerPair(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.DeleteCartEntry(context.Background(), 4, 5)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "cart_entries" WHERE user_id = 4 AND product_id = 5`, rec.Last())

	_, err = repo.DeleteWishlistEntry(context.Background(), 4, 5)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "wishlist_entries" WHERE user_id = 4 AND product_id = 5`, rec.Last())
}

func TestListOrdering(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.ListViews(context.Background(), 9, 20, 40)
	require.NoError(t, err)
	assert.Contains(t, statementOn(t, rec, "view_events"), "WHERE user_id = 9 ORDER BY viewed_at DESC, id DESC LIMIT 20 OFFSET 40")

	_, err = repo.ListCart(context.Background(), 9)
	require.NoError(t, err)
	sql := statementOn(t, rec, "cart_entries")
	assert.Contains(t, sql, "WHERE user_id = 9 ORDER BY id ASC")
	assert.NotContains(t, sql, "LIMIT")

	_, err = repo.ListWishlist(context.Background(), 9)
	require.NoError(t, err)
	assert.Contains(t, statementOn(t, rec, "wishlist_entries"), "WHERE user_id = 9 ORDER BY id ASC")
}

func TestWriteErrorSeparatesUserAndProductKeys(t *testing.T) {
	tests := []struct {
		constraint string
		code       apperror.Code
	}{
		{"fk_cart_entries_user", apperror.CodeUnauthorized},
		{"fk_wishlist_entries_user", apperror.CodeUnauthorized},
		{"fk_view_events_user", apperror.CodeUnauthorized},
		{"fk_cart_entries_product", apperror.CodeNotFound},
		{"fk_view_events_product", apperror.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := writeError(&pq.Error{Code: "23503", Constraint: tt.constraint}, "failed to add to cart")
			assert.True(t, apperror.Is(err, tt.code), "got %v", err)
		})
	}

	err := writeError(errors.New("conn reset"), "failed to add to cart")
	assert.True(t, apperror.Is(err, apperror.CodeStorageUnavailable))
}

func TestListViewsWithoutLimitReadsEverything(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.ListViews(context.Background(), 9, 0, 0)
	require.NoError(t, err)

	sql := statementOn(t, rec, "view_events")
	assert.Contains(t, sql, "ORDER BY viewed_at DESC, id DESC")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}
