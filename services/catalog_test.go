package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

type fakeCatalogSeeder struct {
	items     []models.MenuItem
	inventory []models.InventoryRecord
}

func (f *fakeCatalogSeeder) CountMenuItems(_ context.Context, scope string) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.Scope == scope {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalogSeeder) InsertMenuItem(_ context.Context, item models.MenuItem) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, item)
	return item.ID, nil
}

func (f *fakeCatalogSeeder) InsertInventoryRecord(_ context.Context, record models.InventoryRecord) error {
	f.inventory = append(f.inventory, record)
	return nil
}

func TestEnsureSeededFirstVisit(t *testing.T) {
	seeder := &fakeCatalogSeeder{}

	seeded, err := EnsureSeeded(context.Background(), seeder, "scope-1")
	require.NoError(t, err)
	assert.True(t, seeded)

	require.Len(t, seeder.items, 6)
	require.Len(t, seeder.inventory, 6)
	for i, item := range seeder.items {
		assert.Equal(t, "scope-1", item.Scope)
		assert.Equal(t, item.ID, seeder.inventory[i].MenuItemID)
		assert.Equal(t, int64(SeedQuantity), seeder.inventory[i].Quantity)
	}
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	seeder := &fakeCatalogSeeder{}

	_, err := EnsureSeeded(context.Background(), seeder, "scope-1")
	require.NoError(t, err)

	seeded, err := EnsureSeeded(context.Background(), seeder, "scope-1")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, seeder.items, 6, "a non-empty catalog must never be re-seeded")
	assert.Len(t, seeder.inventory, 6)
}

func TestEnsureSeededLeavesEditedCatalogAlone(t *testing.T) {
	// one surviving item is enough to suppress seeding, even after staff
	// deleted the rest
	seeder := &fakeCatalogSeeder{
		items: []models.MenuItem{{ID: primitive.NewObjectID(), Scope: "scope-1", Name: "잡채"}},
	}

	seeded, err := EnsureSeeded(context.Background(), seeder, "scope-1")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, seeder.items, 1)
	assert.Empty(t, seeder.inventory)
}

func TestEnsureSeededScopesAreIndependent(t *testing.T) {
	seeder := &fakeCatalogSeeder{}

	_, err := EnsureSeeded(context.Background(), seeder, "scope-1")
	require.NoError(t, err)

	seeded, err := EnsureSeeded(context.Background(), seeder, "scope-2")
	require.NoError(t, err)
	assert.True(t, seeded, "a fresh scope gets its own catalog")
	assert.Len(t, seeder.items, 12)
}
