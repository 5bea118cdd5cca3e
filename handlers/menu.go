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

// GetMenuItems returns the scoped catalog, seeding it first when the
// account has never been here before.
func (db *DB) GetMenuItems(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seeder := mongoCatalogSeeder{menu: db.MenuItemCollection, inventory: db.InventoryCollection}
	if _, err := services.EnsureSeeded(ctx, seeder, uid); err != nil {
		http.Error(w, "Failed to seed catalog: "+err.Error(), http.StatusInternalServerError)
		return
	}

	cursor, err := db.MenuItemCollection.Find(ctx, bson.M{"scope": uid})
	if err != nil {
		http.Error(w, "Failed to retrieve menu items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	menuItems := []models.MenuItem{}
	for cursor.Next(ctx) {
		var item models.MenuItem
		if err := cursor.Decode(&item); err != nil {
			http.Error(w, "Failed to decode menu items", http.StatusInternalServerError)
			return
		}
		menuItems = append(menuItems, item)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error while iterating over menu items", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, menuItems)
}

// mongoCatalogSeeder backs first-visit seeding with the menu and
// inventory collections.
type mongoCatalogSeeder struct {
	menu      *mongo.Collection
	inventory *mongo.Collection
}

func (s mongoCatalogSeeder) CountMenuItems(ctx context.Context, scope string) (int64, error) {
	return s.menu.CountDocuments(ctx, bson.M{"scope": scope})
}

func (s mongoCatalogSeeder) InsertMenuItem(ctx context.Context, item models.MenuItem) (primitive.ObjectID, error) {
	result, err := s.menu.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s mongoCatalogSeeder) InsertInventoryRecord(ctx context.Context, record models.InventoryRecord) error {
	_, err := s.inventory.InsertOne(ctx, record)
	return err
}

// PostMenuItems creates a menu item along with its zero-quantity inventory
// record. Staff only (enforced by the router).
func (db *DB) PostMenuItems(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	var menuitem models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&menuitem); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}
	if menuitem.Name == "" || menuitem.Price < 0 {
		http.Error(w, "A name and a non-negative price are required", http.StatusBadRequest)
		return
	}
	menuitem.ID = primitive.NilObjectID
	menuitem.Scope = uid

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.MenuItemCollection.InsertOne(ctx, menuitem)
	if err != nil {
		http.Error(w, "Failed to create menu item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	record := models.InventoryRecord{
		Scope:      uid,
		MenuItemID: result.InsertedID.(primitive.ObjectID),
		Quantity:   0,
	}
	if _, err := db.InventoryCollection.InsertOne(ctx, record); err != nil {
		http.Error(w, "Failed to create inventory record: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Menu item created successfully",
		"inserted_id": result.InsertedID,
	})
}

func (db *DB) GetSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	objectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var singleItem models.MenuItem
	err = db.MenuItemCollection.FindOne(ctx, bson.M{"_id": objectID, "scope": uid}).Decode(&singleItem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Menu item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch menu item", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, singleItem)
}

func (db *DB) PutSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	var menuItem models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&menuItem); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}
	menuItem.ID = id
	menuItem.Scope = uid

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.MenuItemCollection.ReplaceOne(ctx, bson.M{"_id": id, "scope": uid}, menuItem)
	if err != nil {
		http.Error(w, "Failed to update menu item", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PATCH request handler to partially update an existing menu item
func (db *DB) PatchMenuItems(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	var updateData bson.M
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}
	// identity and scope are not editable
	delete(updateData, "_id")
	delete(updateData, "scope")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.MenuItemCollection.UpdateOne(ctx, bson.M{"_id": id, "scope": uid}, bson.M{"$set": updateData})
	if err != nil {
		http.Error(w, "Failed to update menu item", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteSingleMenuItem removes the item and its inventory record. Orders
// keep their own snapshots, so history is unaffected.
func (db *DB) DeleteSingleMenuItem(w http.ResponseWriter, r *http.Request) {
	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	objectID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.MenuItemCollection.DeleteOne(ctx, bson.M{"_id": objectID, "scope": uid}); err != nil {
		http.Error(w, "Cannot delete menu item", http.StatusInternalServerError)
		return
	}
	if _, err := db.InventoryCollection.DeleteOne(ctx, bson.M{"menuitem": objectID, "scope": uid}); err != nil {
		http.Error(w, "Cannot delete inventory record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted successfully"})
}
