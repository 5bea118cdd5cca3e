package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"

	"daebak/restapi/models"
	"daebak/restapi/services"
)

// mongoOrderLedger backs order placement with the two collections the
// transaction touches.
type mongoOrderLedger struct {
	orders    *mongo.Collection
	inventory *mongo.Collection
}

func (l mongoOrderLedger) InsertOrder(ctx context.Context, order models.Order) (interface{}, error) {
	result, err := l.orders.InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}
	return result.InsertedID, nil
}

func (l mongoOrderLedger) DecrementStock(ctx context.Context, scope string, itemID primitive.ObjectID, quantity int64) error {
	result, err := l.inventory.UpdateOne(ctx,
		bson.M{"menuitem": itemID, "scope": scope},
		bson.M{"$inc": bson.M{"quantity": -quantity}},
	)
	if err != nil {
		return err
	}
	// A vanished record (item deleted while in a cart) must fail the whole
	// batch, not commit an order with a missing decrement.
	if result.MatchedCount == 0 {
		return services.ErrStockRecordMissing
	}
	return nil
}

// PlaceNewOrderHandler is the one compound operation in the system: it
// snapshots the cart, prices it through the loyalty engine, and commits
// the order insert together with the per-line inventory decrements as a
// single transaction. When the transaction fails the cart is left
// populated so the user can retry.
//
// Stock is not re-checked here; the add-to-cart validation is the only
// guard, so concurrent orders can drive inventory negative.
func (db *DB) PlaceNewOrderHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := otel.Tracer("daebak-api").Start(r.Context(), "PlaceNewOrderHandler")
	defer span.End()

	_, uid, _ := requestIdentity(r)

	lines := db.Carts.Lines(uid)
	if len(lines) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		ordersPlaced.WithLabelValues("error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	user, err := db.findUserByUID(ctx, uid)
	if err != nil {
		http.Error(w, "Failed to fetch user", http.StatusInternalServerError)
		ordersPlaced.WithLabelValues("error").Inc()
		return
	}

	order := services.NewOrder(user, uid, lines)

	session, err := db.Client.StartSession()
	if err != nil {
		http.Error(w, "Failed to start session: "+err.Error(), http.StatusInternalServerError)
		ordersPlaced.WithLabelValues("error").Inc()
		return
	}
	defer session.EndSession(ctx)

	ledger := mongoOrderLedger{orders: db.OrdersCollection, inventory: db.InventoryCollection}
	orderID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return services.PlaceOrder(sc, ledger, order)
	})
	if err != nil {
		span.RecordError(err)
		// all-or-nothing: no order was recorded and no stock was touched
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrStockRecordMissing) {
			status = http.StatusConflict
		}
		http.Error(w, "Failed to place order: "+err.Error(), status)
		ordersPlaced.WithLabelValues("error").Inc()
		orderPlacementDuration.Observe(time.Since(start).Seconds())
		return
	}

	// The cart is cleared only after the batch committed
	db.Carts.ClearCart(uid)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Order placed successfully",
		"order_id": orderID,
		"total":    order.Total,
	})
	ordersPlaced.WithLabelValues("success").Inc()
	orderPlacementDuration.Observe(time.Since(start).Seconds())
}

//Get Orders Endpoint

// GetAllOrders returns the order ledger for the scope: staff see every
// order, customers only their own. Newest first.
func (db *DB) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	_, uid, role := requestIdentity(r)

	filter := bson.M{"scope": uid}
	if role != models.RoleStaff {
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		filter["user"] = userID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			http.Error(w, "Failed to decode order", http.StatusInternalServerError)
			return
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error while iterating over orders", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatusHandler advances an order one step along
// CREATED -> PREPARING -> DELIVERED. Staff only. The customer's
// completed-order counter is left untouched by delivery.
func (db *DB) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}
	if !services.KnownStatus(req.Status) {
		http.Error(w, "Unknown order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = db.OrdersCollection.FindOne(ctx, bson.M{"_id": orderID, "scope": uid}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}

	if !services.ValidStatusTransition(order.Status, req.Status) {
		http.Error(w, "Invalid status transition from "+order.Status+" to "+req.Status, http.StatusBadRequest)
		return
	}

	_, err = db.OrdersCollection.UpdateOne(ctx, bson.M{"_id": orderID, "scope": uid}, bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}

func (db *DB) OrderEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		db.GetAllOrders(w, r)
	case http.MethodPost:
		db.PlaceNewOrderHandler(w, r)
	default:
		http.Error(w, "Request Method not Accepted", http.StatusBadRequest)
	}
}
