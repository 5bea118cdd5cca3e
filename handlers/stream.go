package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"daebak/restapi/models"
	"daebak/restapi/realtime"
)

// loadScoped reads every document in coll matching filter and marshals the
// list for one snapshot push.
func loadScoped(coll *mongo.Collection, filter bson.M) realtime.LoaderFunc {
	return func(ctx context.Context) (json.RawMessage, error) {
		cursor, err := coll.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		docs := []bson.M{}
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, err
		}
		return json.Marshal(docs)
	}
}

// StreamHandler serves GET /api/stream/{collection} as a Server-Sent
// Events feed. Every event carries the subscriber's complete current view
// of that collection: menu, inventory, or orders. Customers watching
// orders only see their own.
func (db *DB) StreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming is not supported", http.StatusInternalServerError)
		return
	}

	_, uid, role := requestIdentity(r)

	var coll *mongo.Collection
	filter := bson.M{"scope": uid}
	name := mux.Vars(r)["collection"]
	switch name {
	case "menu":
		coll = db.MenuItemCollection
	case "inventory":
		coll = db.InventoryCollection
	case "orders":
		coll = db.OrdersCollection
		if role != models.RoleStaff {
			userID, err := primitive.ObjectIDFromHex(uid)
			if err != nil {
				http.Error(w, "Invalid user ID", http.StatusBadRequest)
				return
			}
			filter["user"] = userID
		}
	default:
		http.Error(w, "Unknown collection", http.StatusNotFound)
		return
	}

	sub, err := realtime.Watch(r.Context(), coll, name, loadScoped(coll, filter))
	if err != nil {
		http.Error(w, "Failed to open stream: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for snapshot := range sub.C {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
		flusher.Flush()
	}
}
