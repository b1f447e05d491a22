package costing

import (
	"math"
	"testing"

	"recipe-costing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCandidatesByGlobalID(t *testing.T) {
	r := NewPriceResolver()

	ing := common.Ingredient{Name: "Parmesan", GlobalIngredientID: "g-123"}
	catalog := []common.SupplierProduct{
		{ID: "p1", Name: "Parmesan Wheel", GlobalIngredientID: "g-123"},
		{ID: "p2", Name: "Parmesan Shavings", GlobalIngredientID: "g-999"},
		{ID: "p3", Name: "Totally Unrelated", GlobalIngredientID: "g-123"},
	}

	candidates := r.FindCandidates(ing, catalog)
	require.Len(t, candidates, 2)
	// The global key wins even when the product name does not resemble the ingredient.
	assert.Equal(t, "p1", candidates[0].ID)
	assert.Equal(t, "p3", candidates[1].ID)
}

func TestFindCandidatesByNameSubstring(t *testing.T) {
	r := NewPriceResolver()

	ing := common.Ingredient{Name: "Parmesan"}
	catalog := []common.SupplierProduct{
		{ID: "p1", Name: "Fresh Parmesan"},
		{ID: "p2", Name: "Cheddar Block"},
		{ID: "p3", Name: "Parm"}, // product name contained in the ingredient name
	}

	candidates := r.FindCandidates(ing, catalog)
	require.Len(t, candidates, 2)
	assert.Equal(t, "p1", candidates[0].ID)
	assert.Equal(t, "p3", candidates[1].ID)
}

func TestPickBestEmptyCandidates(t *testing.T) {
	r := NewPriceResolver()

	assert.Nil(t, r.PickBest(nil, ""))
	assert.Nil(t, r.PickBest([]common.SupplierProduct{}, "metro"))
}

func TestPickBestLowestUnitCost(t *testing.T) {
	r := NewPriceResolver()

	candidates := []common.SupplierProduct{
		{ID: "p1", UnitCost: 12.0},
		{ID: "p2", UnitCost: 8.5},
		{ID: "p3", UnitCost: 10.0},
	}

	best := r.PickBest(candidates, "")
	require.NotNil(t, best)
	assert.Equal(t, "p2", best.ID)
}

func TestPickBestTieBreaksOnListedPrice(t *testing.T) {
	r := NewPriceResolver()

	// Same unit cost; the product with listed price 3 must win over
	// the missing-price product, which sorts as +Inf.
	candidates := []common.SupplierProduct{
		{ID: "p1", UnitCost: 10.0, Price: nil},
		{ID: "p2", UnitCost: 10.0, Price: common.Float64Ptr(3)},
		{ID: "p3", UnitCost: 10.0, Price: common.Float64Ptr(5)},
	}

	best := r.PickBest(candidates, "")
	require.NotNil(t, best)
	assert.Equal(t, "p2", best.ID)
}

func TestPickBestNonFiniteUnitCostSortsLast(t *testing.T) {
	r := NewPriceResolver()

	candidates := []common.SupplierProduct{
		{ID: "p1", UnitCost: math.NaN()},
		{ID: "p2", UnitCost: math.Inf(1)},
		{ID: "p3", UnitCost: 999.0},
	}

	best := r.PickBest(candidates, "")
	require.NotNil(t, best)
	assert.Equal(t, "p3", best.ID)
}

func TestPickBestSupplierHintFilter(t *testing.T) {
	r := NewPriceResolver()

	candidates := []common.SupplierProduct{
		{ID: "p1", UnitCost: 5.0, SupplierName: "Metro Wholesale"},
		{ID: "p2", UnitCost: 9.0, SupplierName: "City Farms"},
	}

	// The hint keeps the more expensive supplier in play.
	best := r.PickBest(candidates, "city farms")
	require.NotNil(t, best)
	assert.Equal(t, "p2", best.ID)

	// A hint matching nothing falls back to the unfiltered pool.
	best = r.PickBest(candidates, "no such supplier anywhere")
	require.NotNil(t, best)
	assert.Equal(t, "p1", best.ID)
}

func TestAutoFillCost(t *testing.T) {
	r := NewPriceResolver()

	ing := common.Ingredient{ID: "i1", Name: "Parmesan", Unit: "kg"}
	catalog := []common.SupplierProduct{
		{ID: "p1", Name: "Fresh Parmesan", UnitCost: 40000, Currency: "VND", SupplierName: "Metro"},
	}

	line := common.RecipeLine{IngredientID: "i1", Quantity: 0.03}
	r.AutoFillCost(&line, ing, catalog)

	assert.Equal(t, "p1", line.SupplierProductID)
	require.NotNil(t, line.UnitCostCached)
	assert.Equal(t, 40000.0, *line.UnitCostCached)
	assert.Equal(t, "VND", line.Currency)
	require.NotNil(t, line.LastPricedAt)
}

func TestAutoFillCostClearsStaleFields(t *testing.T) {
	r := NewPriceResolver()

	ing := common.Ingredient{ID: "i1", Name: "Dragonfruit", Unit: "kg"}

	now := r.now()
	line := common.RecipeLine{
		IngredientID:      "i1",
		Quantity:          1,
		SupplierProductID: "stale-product",
		UnitCostCached:    common.Float64Ptr(123),
		Currency:          "VND",
		LastPricedAt:      &now,
	}

	// No catalog match: every pricing field must be wiped, not left stale.
	r.AutoFillCost(&line, ing, nil)
	assert.Empty(t, line.SupplierProductID)
	assert.Nil(t, line.UnitCostCached)
	assert.Empty(t, line.Currency)
	assert.Nil(t, line.LastPricedAt)
}
