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
)

func (db *DB) GetInventory(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.InventoryCollection.Find(ctx, bson.M{"scope": uid})
	if err != nil {
		http.Error(w, "Failed to fetch inventory", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	records := []models.InventoryRecord{}
	for cursor.Next(ctx) {
		var record models.InventoryRecord
		if err := cursor.Decode(&record); err != nil {
			http.Error(w, "Failed to decode inventory record", http.StatusInternalServerError)
			return
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error while iterating over inventory", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// UpdateInventory applies a signed delta to an item's stock. An existing
// record gets an atomic $inc; a missing one is created with max(delta, 0).
// The increment path is deliberately not clamped at zero.
func (db *DB) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	itemID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"menuitem": itemID, "scope": uid}

	var existing models.InventoryRecord
	err = db.InventoryCollection.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		if _, err := db.InventoryCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"quantity": req.Delta}}); err != nil {
			http.Error(w, "Failed to update inventory: "+err.Error(), http.StatusInternalServerError)
			return
		}
	case err == mongo.ErrNoDocuments:
		quantity := req.Delta
		if quantity < 0 {
			quantity = 0
		}
		record := models.InventoryRecord{Scope: uid, MenuItemID: itemID, Quantity: quantity}
		if _, err := db.InventoryCollection.InsertOne(ctx, record); err != nil {
			http.Error(w, "Failed to create inventory record: "+err.Error(), http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "Database error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	inventoryAdjustments.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Inventory updated successfully"})
}

// stockOf reads the current quantity for one item; missing records count
// as zero stock.
func (db *DB) stockOf(ctx context.Context, scope string, itemID primitive.ObjectID) (int64, error) {
	var record models.InventoryRecord
	err := db.InventoryCollection.FindOne(ctx, bson.M{"menuitem": itemID, "scope": scope}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return record.Quantity, nil
}
