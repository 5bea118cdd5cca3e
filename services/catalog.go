package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

// CatalogSeeder is the write surface used to install the starter catalog
// for a new account scope.
type CatalogSeeder interface {
	CountMenuItems(ctx context.Context, scope string) (int64, error)
	InsertMenuItem(ctx context.Context, item models.MenuItem) (primitive.ObjectID, error)
	InsertInventoryRecord(ctx context.Context, record models.InventoryRecord) error
}

// EnsureSeeded installs the default menu with its starting stock the first
// time a scope is seen. A non-empty catalog is never touched again, no
// matter how many items were later edited or removed. Reports whether it
// seeded.
func EnsureSeeded(ctx context.Context, c CatalogSeeder, scope string) (bool, error) {
	count, err := c.CountMenuItems(ctx, scope)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	for _, item := range DefaultMenu() {
		item.Scope = scope
		id, err := c.InsertMenuItem(ctx, item)
		if err != nil {
			return false, err
		}
		record := models.InventoryRecord{
			Scope:      scope,
			MenuItemID: id,
			Quantity:   SeedQuantity,
		}
		if err := c.InsertInventoryRecord(ctx, record); err != nil {
			return false, err
		}
	}
	return true, nil
}
