package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"daebak/restapi/models"
	"daebak/restapi/services"
)

// Cart Management endpoints. The cart is session state: it lives in
// server memory, scoped to the signed-in user, and is never persisted.

func (db *DB) GetCartForUser(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	lines := db.Carts.Lines(uid)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":    lines,
		"subtotal": services.RoundCurrency(services.Subtotal(lines)),
	})
}

// PostMenuItemToCart validates requested quantity against the current
// stock snapshot and merges the line into the cart. Inventory itself is
// not touched here.
func (db *DB) PostMenuItemToCart(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	var req struct {
		MenuItemID string `json:"menuitem_id"`
		Quantity   int64  `json:"quantity"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	itemID, err := primitive.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.MenuItem
	err = db.MenuItemCollection.FindOne(ctx, bson.M{"_id": itemID, "scope": uid}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Menu item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch menu item", http.StatusInternalServerError)
		return
	}

	stock, err := db.stockOf(ctx, uid, itemID)
	if err != nil {
		http.Error(w, "Failed to fetch inventory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result := db.Carts.AddToCart(uid, item, req.Quantity, req.Notes, stock)

	status := http.StatusCreated
	if !result.Success {
		// validation failure: nothing was mutated
		status = http.StatusConflict
	}
	writeJSON(w, status, result)
}

func (db *DB) DeleteMenuItemFromCart(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	itemID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	db.Carts.RemoveFromCart(uid, itemID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item removed from cart successfully"})
}

func (db *DB) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	db.Carts.ClearCart(uid)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
}

func (db *DB) CartEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		db.GetCartForUser(w, r)
	case http.MethodPost:
		db.PostMenuItemToCart(w, r)
	case http.MethodDelete:
		db.ClearCartHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
