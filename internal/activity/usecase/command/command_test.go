package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/eco-catalog/internal/activity/activitytest"
	productdomain "github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/apperror"
)

const (
	userID  = uint(1)
	bottle  = uint(10)
	missing = uint(99)
)

func newRepo() *activitytest.MemoryRepository {
	return activitytest.NewMemoryRepository(productdomain.Product{ID: bottle, Title: "Steel Bottle"})
}

func TestAddToCartTwiceAccumulates(t *testing.T) {
	repo := newRepo()
	events := &activitytest.RecordingPublisher{}
	h := NewAddToCartHandler(repo, events)
	ctx := context.Background()

	first, err := h.Handle(ctx, AddToCartCommand{UserID: userID, ProductID: bottle, Quantity: 1})
	require.NoError(t, err)
	second, err := h.Handle(ctx, AddToCartCommand{UserID: userID, ProductID: bottle, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	cart, err := repo.ListCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, []string{kafka.EventTypeCartItemAdded, kafka.EventTypeCartItemAdded}, events.Types())
}

func TestAddToCartRejectsBadQuantity(t *testing.T) {
	events := &activitytest.RecordingPublisher{}
	h := NewAddToCartHandler(newRepo(), events)

	for _, q := range []int{0, -2} {
		_, err := h.Handle(context.Background(), AddToCartCommand{UserID: userID, ProductID: bottle, Quantity: q})
		assert.True(t, apperror.Is(err, apperror.CodeInvalidArgument), "quantity %d", q)
	}
	assert.Empty(t, events.Types())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	events := &activitytest.RecordingPublisher{}
	_, err := NewAddToCartHandler(newRepo(), events).Handle(context.Background(),
		AddToCartCommand{UserID: userID, ProductID: missing, Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	assert.Empty(t, events.Types(), "failed writes publish nothing")
}

func TestUpdateCartQuantity(t *testing.T) {
	repo := newRepo()
	events := &activitytest.RecordingPublisher{}
	remove := NewRemoveFromCartHandler(repo, events)
	h := NewUpdateCartQuantityHandler(repo, events, remove)
	ctx := context.Background()

	_, err := h.Handle(ctx, UpdateCartQuantityCommand{UserID: userID, ProductID: bottle, Quantity: 3})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound), "absent row")

	_, err = NewAddToCartHandler(repo, events).Handle(ctx, AddToCartCommand{UserID: userID, ProductID: bottle, Quantity: 1})
	require.NoError(t, err)

	entry, err := h.Handle(ctx, UpdateCartQuantityCommand{UserID: userID, ProductID: bottle, Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, entry.Quantity)

	entry, err = h.Handle(ctx, UpdateCartQuantityCommand{UserID: userID, ProductID: bottle, Quantity: 0})
	require.NoError(t, err)
	assert.Nil(t, entry)

	cart, err := repo.ListCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart, "quantity 0 removes the entry")

	assert.Equal(t, []string{
		kafka.EventTypeCartItemAdded,
		kafka.EventTypeCartItemUpdated,
		kafka.EventTypeCartItemRemoved,
	}, events.Types())
}

func TestRemoveFromCartIsNoOpWhenAbsent(t *testing.T) {
	events := &activitytest.RecordingPublisher{}
	h := NewRemoveFromCartHandler(newRepo(), events)
	assert.NoError(t, h.Handle(context.Background(), RemoveFromCartCommand{UserID: userID, ProductID: bottle}))
	assert.Empty(t, events.Types(), "nothing was removed")
}

func TestUpdateCartQuantityZeroOnAbsentRowPublishesNothing(t *testing.T) {
	repo := newRepo()
	events := &activitytest.RecordingPublisher{}
	h := NewUpdateCartQuantityHandler(repo, events, NewRemoveFromCartHandler(repo, events))

	entry, err := h.Handle(context.Background(), UpdateCartQuantityCommand{UserID: userID, ProductID: bottle, Quantity: 0})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, events.Types())
}

func TestAddToWishlistIsIdempotent(t *testing.T) {
	repo := newRepo()
	h := NewAddToWishlistHandler(repo, &activitytest.RecordingPublisher{})
	ctx := context.Background()

	first, err := h.Handle(ctx, AddToWishlistCommand{UserID: userID, ProductID: bottle})
	require.NoError(t, err)
	second, err := h.Handle(ctx, AddToWishlistCommand{UserID: userID, ProductID: bottle})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	events := &activitytest.RecordingPublisher{}
	remove := NewRemoveFromWishlistHandler(repo, events)
	require.NoError(t, remove.Handle(ctx, RemoveFromWishlistCommand{UserID: userID, ProductID: bottle}))
	require.NoError(t, remove.Handle(ctx, RemoveFromWishlistCommand{UserID: userID, ProductID: bottle}))

	list, err := repo.ListWishlist(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, []string{kafka.EventTypeWishlistItemRemoved}, events.Types(), "only the removal that deleted a row")
}

func TestRecordViewTwiceKeepsOneRowWithLatestTime(t *testing.T) {
	repo := newRepo()
	events := &activitytest.RecordingPublisher{}
	h := NewRecordViewHandler(repo, events)
	ctx := context.Background()

	t0 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return t0 }
	first, err := h.Handle(ctx, RecordViewCommand{UserID: userID, ProductID: bottle})
	require.NoError(t, err)

	h.now = func() time.Time { return t0.Add(time.Hour) }
	second, err := h.Handle(ctx, RecordViewCommand{UserID: userID, ProductID: bottle})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, t0.Add(time.Hour).Equal(second.ViewedAt))

	history, err := repo.ListViews(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, t0.Add(time.Hour).Equal(history[0].Item.ViewedAt))

	published := events.Events()
	require.Len(t, published, 2)
	assert.Equal(t, kafka.EventTypeProductViewed, published[1].EventType)
	assert.True(t, t0.Add(time.Hour).Equal(published[1].Timestamp))
}

func TestRecordViewValidation(t *testing.T) {
	h := NewRecordViewHandler(newRepo(), nil)

	_, err := h.Handle(context.Background(), RecordViewCommand{UserID: userID})
	require.Error(t, err)
	assert.Equal(t, "product_id", apperror.As(err).Field)

	err = h.RecordView(context.Background(), userID, missing)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	events := &activitytest.RecordingPublisher{Err: errors.New("broker down")}
	entry, err := NewAddToCartHandler(newRepo(), events).Handle(context.Background(),
		AddToCartCommand{UserID: userID, ProductID: bottle, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
}
