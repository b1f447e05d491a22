package costing

import (
	"testing"

	"recipe-costing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCostSourcePriority(t *testing.T) {
	calc := NewCostCalculator()

	inventory := []common.Ingredient{
		{ID: "i1", Name: "Parmesan", Unit: "kg", CostPerUnit: 30000},
	}
	catalog := []common.SupplierProduct{
		{ID: "p1", Name: "Fresh Parmesan", UnitCost: 40000},
	}

	// Cached unit cost beats everything.
	line := common.RecipeLine{
		IngredientID:      "i1",
		Quantity:          2,
		SupplierProductID: "p1",
		UnitCostCached:    common.Float64Ptr(50000),
	}
	lc := calc.LineCost(line, inventory, catalog)
	assert.Equal(t, 100000.0, lc.Cost)
	assert.Equal(t, CostSourceCached, lc.Source)

	// Without a cache the catalog product is consulted live.
	line.UnitCostCached = nil
	lc = calc.LineCost(line, inventory, catalog)
	assert.Equal(t, 80000.0, lc.Cost)
	assert.Equal(t, CostSourceSupplier, lc.Source)

	// Without a product reference the ingredient cost applies.
	line.SupplierProductID = ""
	lc = calc.LineCost(line, inventory, catalog)
	assert.Equal(t, 60000.0, lc.Cost)
	assert.Equal(t, CostSourceInventory, lc.Source)
}

func TestLineCostDelistedProductFallsThrough(t *testing.T) {
	calc := NewCostCalculator()

	inventory := []common.Ingredient{
		{ID: "i1", Name: "Parmesan", Unit: "kg", CostPerUnit: 30000},
	}

	// The referenced product no longer exists in the catalog.
	line := common.RecipeLine{IngredientID: "i1", Quantity: 1, SupplierProductID: "gone"}
	lc := calc.LineCost(line, inventory, nil)
	assert.Equal(t, 30000.0, lc.Cost)
	assert.Equal(t, CostSourceInventory, lc.Source)
}

func TestLineCostUnknownIngredient(t *testing.T) {
	calc := NewCostCalculator()

	line := common.RecipeLine{IngredientID: "missing", Quantity: 2}
	lc := calc.LineCost(line, nil, nil)
	assert.Equal(t, 0.0, lc.Cost)
	assert.Equal(t, CostSourceNone, lc.Source)
}

func TestLineCostZeroCachedCostIgnored(t *testing.T) {
	calc := NewCostCalculator()

	inventory := []common.Ingredient{
		{ID: "i1", Name: "Salt", Unit: "kg", CostPerUnit: 8000},
	}

	// A zero cached value is a placeholder, not a real price.
	line := common.RecipeLine{
		IngredientID:   "i1",
		Quantity:       0.5,
		UnitCostCached: common.Float64Ptr(0),
	}
	lc := calc.LineCost(line, inventory, nil)
	assert.Equal(t, 4000.0, lc.Cost)
	assert.Equal(t, CostSourceInventory, lc.Source)
}

func TestRecipeCostSkipsPlaceholderLines(t *testing.T) {
	calc := NewCostCalculator()

	inventory := []common.Ingredient{
		{ID: "i1", Name: "Rice", Unit: "kg", CostPerUnit: 25000},
	}
	lines := []common.RecipeLine{
		{IngredientID: "i1", Quantity: 0.2},
		{IngredientID: "", Quantity: 3},   // unresolved line
		{IngredientID: "i1", Quantity: 0}, // zero quantity
	}

	assert.Equal(t, 5000.0, calc.RecipeCost(lines, inventory, nil))
}

func TestComputeCostsMarginBands(t *testing.T) {
	calc := NewCostCalculator()

	inventory := []common.Ingredient{
		{ID: "i1", Name: "Rice", Unit: "kg", CostPerUnit: 100},
	}
	lines := []common.RecipeLine{{IngredientID: "i1", Quantity: 3}}

	// Cost 300 against price 1000: 70% margin.
	summary := calc.ComputeCosts(lines, inventory, nil, 1000)
	require.Len(t, summary.PerLine, 1)
	assert.Equal(t, 300.0, summary.TotalCost)
	assert.Equal(t, 700.0, summary.Profit)
	assert.InDelta(t, 70.0, summary.MarginPercent, 1e-9)
	assert.Equal(t, MarginBandExcellent, summary.MarginBand)

	// Cost 300 against price ~353: roughly 15% margin.
	summary = calc.ComputeCosts(lines, inventory, nil, 352.95)
	assert.InDelta(t, 15.0, summary.MarginPercent, 0.01)
	assert.Equal(t, MarginBandCritical, summary.MarginBand)
}

func TestMarginBandThresholds(t *testing.T) {
	assert.Equal(t, MarginBandExcellent, MarginBand(60))
	assert.Equal(t, MarginBandGood, MarginBand(59.99))
	assert.Equal(t, MarginBandGood, MarginBand(40))
	assert.Equal(t, MarginBandWarning, MarginBand(39.99))
	assert.Equal(t, MarginBandWarning, MarginBand(20))
	assert.Equal(t, MarginBandCritical, MarginBand(19.99))
	assert.Equal(t, MarginBandCritical, MarginBand(-10))
}

func TestMarginZeroPrice(t *testing.T) {
	assert.Equal(t, 0.0, Margin(0, 500))
	assert.Equal(t, 0.0, Margin(-100, 500))
}
