package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/mykafka"
)

func newCartService(t *testing.T) (*CartService, *fakePublisher) {
	pub := &fakePublisher{}
	r := newTestRepo(t)
	seedUser(t, r, "alice", "secret")
	return &CartService{Repo: r, Events: pub}, pub
}

func TestCartService_AddTwiceAggregatesQty(t *testing.T) {
	svc, pub := newCartService(t)
	ctx := context.Background()

	req := transport.CartItemRequest{DishName: "Pizza", Qty: intPtr(1), Price: floatPtr(9.5)}
	_, err := svc.Add(ctx, "alice", req)
	require.NoError(t, err)
	item, err := svc.Add(ctx, "alice", req)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Qty)

	items, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 9.5, items[0].Price)

	require.Len(t, pub.events, 2)
	assert.Equal(t, mykafka.TopicCartEvents, pub.events[0].Topic)
	assert.Equal(t, "alice", pub.events[0].Key)
}

func TestCartService_AddDefaults(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Tea", Image: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Qty)
	assert.Zero(t, item.Price)
	assert.Equal(t, models.PlaceholderImage, item.Image())
}

func TestCartService_AddValidation(t *testing.T) {
	svc, pub := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", transport.CartItemRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Tea", Qty: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Tea", Qty: intPtr(-2)})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, pub.events)
}

func TestCartService_RemoveThenRemoveAgain(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Soup"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Tea"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "alice", "Soup"))

	items, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tea", items[0].DishName)

	err = svc.Remove(ctx, "alice", "Soup")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Remove(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_ReplaceIsIdempotent(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Old"})
	require.NoError(t, err)

	payload := []transport.CartItemRequest{
		{DishName: "Soup", Qty: intPtr(2), Price: floatPtr(5.5)},
		{DishName: "Bread"},
	}
	require.NoError(t, svc.Replace(ctx, "alice", payload))
	first, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Replace(ctx, "alice", payload))
	second, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	require.Len(t, second, 2)
	for _, it := range second {
		assert.NotEqual(t, "Old", it.DishName)
		if it.DishName == "Bread" {
			assert.Equal(t, 1, it.Qty)
			assert.Zero(t, it.Price)
			assert.Equal(t, models.PlaceholderImage, it.Image())
		}
	}
}

func TestCartService_ReplaceMergesDuplicates(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	err := svc.Replace(ctx, "alice", []transport.CartItemRequest{
		{DishName: "Soup", Qty: intPtr(2), Price: floatPtr(5), Image: strPtr("first.png")},
		{DishName: "Soup", Qty: intPtr(3), Price: floatPtr(7), Image: strPtr("second.png")},
	})
	require.NoError(t, err)

	items, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
	assert.Equal(t, 5.0, items[0].Price)
	assert.Equal(t, "first.png", items[0].Image())
}

func TestCartService_ReplaceValidation(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "alice", transport.CartItemRequest{DishName: "Keep"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Replace(ctx, "alice", nil), ErrValidation)
	assert.ErrorIs(t, svc.Replace(ctx, "alice", []transport.CartItemRequest{{DishName: "A"}, {}}), ErrValidation)

	items, err := svc.Fetch(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Replace(ctx, "alice", []transport.CartItemRequest{}))
	items, err = svc.Fetch(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_Summary(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	require.NoError(t, svc.Replace(ctx, "alice", []transport.CartItemRequest{
		{DishName: "Soup", Qty: intPtr(3), Price: floatPtr(0.1)},
		{DishName: "Tea", Qty: intPtr(2), Price: floatPtr(1.25)},
	}))

	sum, err := svc.Summary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, sum.TotalItems)
	assert.Equal(t, "2.80", sum.TotalPrice.StringFixed(2))

	empty, err := svc.Summary(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalItems)
	assert.Equal(t, "0.00", empty.TotalPrice.StringFixed(2))
}

func TestCartService_UnknownUser(t *testing.T) {
	svc, pub := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "ghost", transport.CartItemRequest{DishName: "Soup"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.Replace(ctx, "ghost", []transport.CartItemRequest{{DishName: "Soup"}})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Empty(t, pub.events)
}
