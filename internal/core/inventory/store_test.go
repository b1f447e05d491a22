package inventory

import (
	"context"
	"testing"

	"recipe-costing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "r1", common.Ingredient{
		Name:        "Saffron",
		Unit:        "g",
		CostPerUnit: 500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Saffron", created.Name)

	list, err := store.List(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// Other restaurants never see it.
	other, err := store.List(ctx, "r2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "r1", common.Ingredient{Name: "Saffron", Unit: "g"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, IngredientPatch{
		CostPerUnit:        common.Float64Ptr(750),
		GlobalIngredientID: common.StringPtr("g-42"),
	})
	require.NoError(t, err)
	assert.Equal(t, 750.0, updated.CostPerUnit)
	assert.Equal(t, "g-42", updated.GlobalIngredientID)
	// Untouched fields survive a partial patch.
	assert.Equal(t, "Saffron", updated.Name)
	assert.Equal(t, "g", updated.Unit)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Update(context.Background(), "no-such-id", IngredientPatch{
		CostPerUnit: common.Float64Ptr(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "r1", common.Ingredient{Name: "Rice", Unit: "kg"})
	require.NoError(t, err)

	list, err := store.List(ctx, "r1")
	require.NoError(t, err)
	list[0].Name = "mutated"

	fresh, err := store.List(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Rice", fresh[0].Name)
	assert.Equal(t, created.ID, fresh[0].ID)
}
