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

	"daebak/restapi/ai"
	"daebak/restapi/models"
)

// scopedMenu loads the caller's catalog so the assistant only ever talks
// about dishes that actually exist for that scope.
func (db *DB) scopedMenu(ctx context.Context, scope string) ([]models.MenuItem, error) {
	cursor, err := db.MenuItemCollection.Find(ctx, bson.M{"scope": scope})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	menu := []models.MenuItem{}
	for cursor.Next(ctx) {
		var item models.MenuItem
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		menu = append(menu, item)
	}
	return menu, cursor.Err()
}

// chatFor returns the caller's conversation, starting a fresh one seeded
// with the current menu when none exists yet. Sessions live in memory and
// are dropped on logout.
func (db *DB) chatFor(ctx context.Context, uid string) (*ai.Chat, error) {
	db.chatMu.Lock()
	defer db.chatMu.Unlock()

	if db.chats == nil {
		db.chats = make(map[string]*ai.Chat)
	}
	if chat, ok := db.chats[uid]; ok {
		return chat, nil
	}

	menu, err := db.scopedMenu(ctx, uid)
	if err != nil {
		return nil, err
	}
	chat, err := db.Assistant.NewChat(ctx, menu)
	if err != nil {
		return nil, err
	}
	db.chats[uid] = chat
	return chat, nil
}

func (db *DB) dropChat(uid string) {
	db.chatMu.Lock()
	delete(db.chats, uid)
	db.chatMu.Unlock()
}

// ChatHandler relays one message to the waiter assistant and returns its
// reply. 503 when no Gemini key is configured.
func (db *DB) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if db.Assistant == nil {
		http.Error(w, "Assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	_, uid, _ := requestIdentity(r)

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	chat, err := db.chatFor(ctx, uid)
	if err != nil {
		http.Error(w, "Failed to start chat: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": chat.Send(ctx, req.Message)})
}

// VoiceHandler turns a speech transcript into a structured command the
// client can act on: ADD_TO_CART, NAVIGATE, CHECKOUT or UNKNOWN.
func (db *DB) VoiceHandler(w http.ResponseWriter, r *http.Request) {
	if db.Assistant == nil {
		http.Error(w, "Assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	_, uid, _ := requestIdentity(r)

	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	menu, err := db.scopedMenu(ctx, uid)
	if err != nil {
		http.Error(w, "Failed to fetch menu items", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, db.Assistant.ParseVoiceCommand(ctx, req.Transcript, menu))
}

// GenerateItemImageHandler renders a photo for a menu item and stores the
// resulting data URL on the item. Staff only.
func (db *DB) GenerateItemImageHandler(w http.ResponseWriter, r *http.Request) {
	if db.Assistant == nil {
		http.Error(w, "Assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	_, uid, _ := requestIdentity(r)

	vars := mux.Vars(r)
	itemID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid menu item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
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

	image, err := db.Assistant.GenerateMenuImage(ctx, item.Name, req.Instruction)
	if err != nil {
		http.Error(w, "Failed to generate image: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if image == "" {
		http.Error(w, "Model returned no image", http.StatusBadGateway)
		return
	}

	_, err = db.MenuItemCollection.UpdateOne(ctx, bson.M{"_id": itemID, "scope": uid}, bson.M{"$set": bson.M{"image": image}})
	if err != nil {
		http.Error(w, "Failed to store generated image", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Image generated successfully", "image": image})
}
