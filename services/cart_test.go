package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

func testItem(name string, price float64) models.MenuItem {
	return models.MenuItem{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Price: price,
		Tags:  []string{"인기"},
	}
}

func TestAddToCartInsufficientStock(t *testing.T) {
	store := NewCartStore()
	item := testItem("전주 비빔밥", 14.99)

	res := store.AddToCart("u1", item, 2, "", 1)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, item.Name)
	assert.Empty(t, store.Lines("u1"), "failed add must leave the cart unchanged")
}

func TestAddToCartCountsQuantityAlreadyInCart(t *testing.T) {
	store := NewCartStore()
	item := testItem("잡채", 12.50)

	res := store.AddToCart("u1", item, 2, "", 3)
	require.True(t, res.Success)

	// stock 3, 2 already in cart: 2 more must not fit
	res = store.AddToCart("u1", item, 2, "", 3)
	assert.False(t, res.Success)
	assert.Equal(t, int64(2), store.QuantityOf("u1", item.ID))

	// but 1 more does
	res = store.AddToCart("u1", item, 1, "", 3)
	assert.True(t, res.Success)
	assert.Equal(t, int64(3), store.QuantityOf("u1", item.ID))
}

func TestAddToCartMergesLines(t *testing.T) {
	store := NewCartStore()
	item := testItem("양념 치킨", 19.99)

	require.True(t, store.AddToCart("u1", item, 1, "", 20).Success)
	require.True(t, store.AddToCart("u1", item, 2, "덜 맵게", 20).Success)

	lines := store.Lines("u1")
	require.Len(t, lines, 1, "no duplicate line for the same item")
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, "덜 맵게", lines[0].Notes)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	store := NewCartStore()
	item := testItem("매운 떡볶이", 10.99)

	assert.False(t, store.AddToCart("u1", item, 0, "", 20).Success)
	assert.False(t, store.AddToCart("u1", item, -1, "", 20).Success)
	assert.Empty(t, store.Lines("u1"))
}

func TestRemoveFromCartDropsWholeLine(t *testing.T) {
	store := NewCartStore()
	a := testItem("전주 비빔밥", 14.99)
	b := testItem("잡채", 12.50)

	require.True(t, store.AddToCart("u1", a, 2, "", 20).Success)
	require.True(t, store.AddToCart("u1", b, 1, "", 20).Success)

	store.RemoveFromCart("u1", a.ID)

	lines := store.Lines("u1")
	require.Len(t, lines, 1)
	assert.Equal(t, b.ID, lines[0].MenuItem.ID)
}

func TestClearCart(t *testing.T) {
	store := NewCartStore()
	item := testItem("소불고기 정식", 18.50)

	require.True(t, store.AddToCart("u1", item, 1, "", 20).Success)
	store.ClearCart("u1")
	assert.Empty(t, store.Lines("u1"))

	// clearing an absent cart is a no-op
	store.ClearCart("u2")
}

func TestCartsAreScopedPerUser(t *testing.T) {
	store := NewCartStore()
	item := testItem("생고기 김치찌개", 13.99)

	require.True(t, store.AddToCart("u1", item, 1, "", 20).Success)
	assert.Empty(t, store.Lines("u2"))
	assert.Equal(t, int64(0), store.QuantityOf("u2", item.ID))
}

func TestLinesReturnsDeepCopy(t *testing.T) {
	store := NewCartStore()
	item := testItem("전주 비빔밥", 14.99)
	require.True(t, store.AddToCart("u1", item, 1, "", 20).Success)

	snapshot := store.Lines("u1")
	snapshot[0].Quantity = 99
	snapshot[0].MenuItem.Tags[0] = "changed"

	fresh := store.Lines("u1")
	assert.Equal(t, int64(1), fresh[0].Quantity)
	assert.Equal(t, "인기", fresh[0].MenuItem.Tags[0])
}
