package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

type stockDecrement struct {
	scope    string
	itemID   primitive.ObjectID
	quantity int64
}

// fakeOrderLedger records writes in memory; items listed in missing have
// no inventory record, like a dish deleted while sitting in a cart.
type fakeOrderLedger struct {
	orders     []models.Order
	decrements []stockDecrement
	missing    map[primitive.ObjectID]bool
}

func (f *fakeOrderLedger) InsertOrder(_ context.Context, order models.Order) (interface{}, error) {
	f.orders = append(f.orders, order)
	return primitive.NewObjectID(), nil
}

func (f *fakeOrderLedger) DecrementStock(_ context.Context, scope string, itemID primitive.ObjectID, quantity int64) error {
	if f.missing[itemID] {
		return ErrStockRecordMissing
	}
	f.decrements = append(f.decrements, stockDecrement{scope, itemID, quantity})
	return nil
}

func TestNewOrder(t *testing.T) {
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            "홍길동",
		CompletedOrders: 11,
	}
	lines := []models.CartLine{
		{MenuItem: testItem("전주 비빔밥", 14.99), Quantity: 2},
	}

	order := NewOrder(user, "scope-1", lines)

	assert.Equal(t, "scope-1", order.Scope)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, "홍길동", order.UserName)
	assert.Equal(t, OrderStatusCreated, order.Status)
	assert.Equal(t, 25.48, order.Total, "11 completed orders unlocks the 15% coupon")
	assert.Len(t, order.Items, 1)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrderWithoutCoupon(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "홍길동", CompletedOrders: 10}
	lines := []models.CartLine{
		{MenuItem: testItem("전주 비빔밥", 14.99), Quantity: 2},
	}

	assert.Equal(t, 29.98, NewOrder(user, "scope-1", lines).Total)
}

func TestPlaceOrderDecrementsEveryLine(t *testing.T) {
	bibimbap := testItem("전주 비빔밥", 14.99)
	japchae := testItem("잡채", 12.50)
	user := &models.User{ID: primitive.NewObjectID(), Name: "홍길동"}
	order := NewOrder(user, "scope-1", []models.CartLine{
		{MenuItem: bibimbap, Quantity: 2},
		{MenuItem: japchae, Quantity: 1},
	})

	ledger := &fakeOrderLedger{}
	orderID, err := PlaceOrder(context.Background(), ledger, order)
	require.NoError(t, err)
	assert.NotNil(t, orderID)

	require.Len(t, ledger.orders, 1)
	assert.Equal(t, order.Total, ledger.orders[0].Total)
	require.Len(t, ledger.decrements, 2)
	assert.Equal(t, stockDecrement{"scope-1", bibimbap.ID, 2}, ledger.decrements[0])
	assert.Equal(t, stockDecrement{"scope-1", japchae.ID, 1}, ledger.decrements[1])
}

func TestPlaceOrderFailsWhenStockRecordMissing(t *testing.T) {
	bibimbap := testItem("전주 비빔밥", 14.99)
	deleted := testItem("매운 떡볶이", 10.99)
	user := &models.User{ID: primitive.NewObjectID(), Name: "홍길동"}
	order := NewOrder(user, "scope-1", []models.CartLine{
		{MenuItem: bibimbap, Quantity: 1},
		{MenuItem: deleted, Quantity: 1},
	})

	ledger := &fakeOrderLedger{missing: map[primitive.ObjectID]bool{deleted.ID: true}}
	_, err := PlaceOrder(context.Background(), ledger, order)

	// the error aborts the surrounding transaction, rolling back the
	// order insert and the earlier decrement
	require.ErrorIs(t, err, ErrStockRecordMissing)
}
