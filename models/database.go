package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//User represents an account in the system

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"password,omitempty" bson:"password"`
	Role            string             `json:"role" bson:"role"`
	CompletedOrders int                `json:"completed_orders" bson:"completed_orders"`
}

// Roles are fixed at registration and never change afterwards.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

// Profile is the public view of a user returned by the /users/me endpoint.
type Profile struct {
	Name            string `json:"name" bson:"name"`
	Email           string `json:"email" bson:"email"`
	Role            string `json:"role" bson:"role"`
	CompletedOrders int    `json:"completed_orders" bson:"completed_orders"`
}

type MenuItem struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Scope       string             `json:"-" bson:"scope"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Category    string             `json:"category" bson:"category"`
	Tags        []string           `json:"tags" bson:"tags"`
	Image       string             `json:"image" bson:"image"`
}

// InventoryRecord tracks stock for one menu item. One record per item,
// created with the item and removed with it.
type InventoryRecord struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Scope      string             `json:"-" bson:"scope"`
	MenuItemID primitive.ObjectID `json:"menuitem_id" bson:"menuitem"`
	Quantity   int64              `json:"quantity" bson:"quantity"`
}

// CartLine carries a full snapshot of the menu item so that later catalog
// edits never change what was ordered.
type CartLine struct {
	MenuItem MenuItem `json:"menuitem" bson:"menuitem"`
	Quantity int64    `json:"quantity" bson:"quantity"`
	Notes    string   `json:"notes,omitempty" bson:"notes,omitempty"`
}

type Order struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Scope     string             `json:"-" bson:"scope"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user"`
	UserName  string             `json:"user_name" bson:"user_name"`
	Items     []CartLine         `json:"items" bson:"items"`
	Total     float64            `json:"total" bson:"total"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Coupon struct {
	Code            string `json:"code" bson:"code"`
	DiscountPercent int    `json:"discount_percent" bson:"discount_percent"`
	Description     string `json:"description" bson:"description"`
}
