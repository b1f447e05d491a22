package costing

import (
	"recipe-costing/internal/pkg/common"
)

// 成本來源標記
const (
	CostSourceCached    = "cached"
	CostSourceSupplier  = "supplier"
	CostSourceInventory = "inventory"
	CostSourceNone      = "none"
)

// 毛利率分級標籤
const (
	MarginBandExcellent = "excellent"
	MarginBandGood      = "good"
	MarginBandWarning   = "warning"
	MarginBandCritical  = "critical"
)

// CostCalculator 食譜成本計算器
// 成本來源依固定優先序：快取單價 → 目錄即時單價 → 食材單價；
// 食材完全找不到時成本為 0，呼叫端應視為「成本不完整」訊號而非錯誤
type CostCalculator struct{}

// NewCostCalculator 創建成本計算器
func NewCostCalculator() *CostCalculator {
	return &CostCalculator{}
}

// LineCost 計算單行成本並回報成本來源
func (c *CostCalculator) LineCost(line common.RecipeLine, inventory []common.Ingredient, catalog []common.SupplierProduct) common.LineCost {
	result := common.LineCost{
		IngredientID: line.IngredientID,
		Quantity:     line.Quantity,
		Source:       CostSourceNone,
	}

	// (1) 快取單價
	if line.UnitCostCached != nil && *line.UnitCostCached > 0 {
		result.Cost = *line.UnitCostCached * line.Quantity
		result.Source = CostSourceCached
		return result
	}

	// (2) 供應商目錄即時單價
	if line.SupplierProductID != "" {
		for _, p := range catalog {
			if p.ID == line.SupplierProductID {
				result.Cost = p.UnitCost * line.Quantity
				result.Source = CostSourceSupplier
				return result
			}
		}
		// 商品已自目錄下架，落入下一層
	}

	// (3) 食材單價
	for _, ing := range inventory {
		if ing.ID == line.IngredientID {
			result.Cost = ing.CostPerUnit * line.Quantity
			result.Source = CostSourceInventory
			return result
		}
	}

	return result
}

// RecipeCost 計算整份食譜成本
// 無效或佔位行（缺食材、數量為零）直接排除，不以零值計入
func (c *CostCalculator) RecipeCost(lines []common.RecipeLine, inventory []common.Ingredient, catalog []common.SupplierProduct) float64 {
	var total float64
	for _, line := range lines {
		if line.IngredientID == "" || line.Quantity <= 0 {
			continue
		}
		total += c.LineCost(line, inventory, catalog).Cost
	}
	return total
}

// ComputeCosts 計算逐行成本、總成本與毛利
func (c *CostCalculator) ComputeCosts(lines []common.RecipeLine, inventory []common.Ingredient, catalog []common.SupplierProduct, price float64) common.CostSummary {
	summary := common.CostSummary{PerLine: []common.LineCost{}}

	for _, line := range lines {
		if line.IngredientID == "" || line.Quantity <= 0 {
			continue
		}
		lc := c.LineCost(line, inventory, catalog)
		summary.PerLine = append(summary.PerLine, lc)
		summary.TotalCost += lc.Cost
	}

	summary.Profit = price - summary.TotalCost
	summary.MarginPercent = Margin(price, summary.TotalCost)
	summary.MarginBand = MarginBand(summary.MarginPercent)
	return summary
}

// Margin 計算毛利率（%）；售價為零或負數時回 0
func Margin(price, cost float64) float64 {
	if price <= 0 {
		return 0
	}
	return (price - cost) / price * 100
}

// MarginBand 毛利率分級，供 UI 顯示
func MarginBand(margin float64) string {
	switch {
	case margin >= 60:
		return MarginBandExcellent
	case margin >= 40:
		return MarginBandGood
	case margin >= 20:
		return MarginBandWarning
	default:
		return MarginBandCritical
	}
}
