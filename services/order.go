package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

// ErrStockRecordMissing aborts placement when a cart line's inventory
// record has disappeared, which happens when the item was deleted after
// the customer added it.
var ErrStockRecordMissing = errors.New("재고 정보를 찾을 수 없어 주문이 취소되었습니다")

// OrderLedger is the write surface of order placement. The caller runs
// PlaceOrder inside one transaction, so an error from either method rolls
// back everything written so far.
type OrderLedger interface {
	InsertOrder(ctx context.Context, order models.Order) (interface{}, error)
	DecrementStock(ctx context.Context, scope string, itemID primitive.ObjectID, quantity int64) error
}

// NewOrder assembles the order document for a cart: the line snapshots,
// the loyalty-priced total, the denormalized customer name, status CREATED.
func NewOrder(user *models.User, scope string, lines []models.CartLine) models.Order {
	return models.Order{
		Scope:     scope,
		UserID:    user.ID,
		UserName:  user.Name,
		Items:     lines,
		Total:     OrderTotal(lines, CouponAvailable(user.CompletedOrders)),
		Status:    OrderStatusCreated,
		CreatedAt: time.Now().UTC(),
	}
}

// PlaceOrder writes the order and one stock decrement per line. All-or-
// nothing: the first failed write aborts the batch. Stock levels are not
// re-checked here, so the decrements can take quantities below zero.
func PlaceOrder(ctx context.Context, ledger OrderLedger, order models.Order) (interface{}, error) {
	orderID, err := ledger.InsertOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	for _, line := range order.Items {
		if err := ledger.DecrementStock(ctx, order.Scope, line.MenuItem.ID, line.Quantity); err != nil {
			return nil, err
		}
	}
	return orderID, nil
}
