package common

import (
	"fmt"
	"strings"
	"time"
)

// Ingredient 庫存食材
// Unit 為庫存追蹤的標準單位（kg、L、piece），所有成本均以標準單位儲存與計算
type Ingredient struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Unit               string  `json:"unit"`
	CostPerUnit        float64 `json:"cost_per_unit"`
	GlobalIngredientID string  `json:"global_ingredient_id,omitempty"` // 跨供應商關聯鍵
}

// SupplierProduct 供應商商品（外部目錄提供，對本系統唯讀）
type SupplierProduct struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	PackSize           float64  `json:"pack_size"`
	PackUnit           string   `json:"pack_unit"`
	SupplierID         string   `json:"supplier_id"`
	SupplierName       string   `json:"supplier_name"`
	Price              *float64 `json:"price"` // 名目售價，可能缺漏
	Currency           string   `json:"currency"`
	UnitCost           float64  `json:"unit_cost"` // 每標準單位成本（由售價與包裝量推得）
	GlobalIngredientID string   `json:"global_ingredient_id,omitempty"`
	Category           string   `json:"category,omitempty"`
	Brand              string   `json:"brand,omitempty"`
}

// RecipeLine 食譜行
// Quantity 一律為所參照食材的標準單位；PieceCount 僅供顯示，不參與成本計算
type RecipeLine struct {
	IngredientID      string     `json:"ingredient_id"`
	Quantity          float64    `json:"quantity"`
	PieceCount        *float64   `json:"piece_count,omitempty"`
	SupplierName      string     `json:"supplier_name,omitempty"`
	SupplierProductID string     `json:"supplier_product_id,omitempty"`
	UnitCostCached    *float64   `json:"unit_cost_cached,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	LastPricedAt      *time.Time `json:"last_priced_at,omitempty"`
}

// ParsedIngredient 自由文字／AI 萃取出的食材條目，屬不可信輸入
// Unit 為食譜單位（tsp、tbsp、cup...），非標準單位
type ParsedIngredient struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	PieceCount  *float64 `json:"piece_count,omitempty"`
	CostPerUnit *float64 `json:"cost_per_unit,omitempty"`
}

// ConvertedQuantity 單位換算結果
// 換算成功時 PieceCount 保留原始食譜單位數量、RecipeUnit 回傳單位標籤；
// 未知組合為原樣通過，兩者皆為 null
type ConvertedQuantity struct {
	Quantity   float64  `json:"quantity"`
	PieceCount *float64 `json:"piece_count"`
	RecipeUnit *string  `json:"recipe_unit"`
}

// ResolveResult 食材調和結果
type ResolveResult struct {
	RecipeLines        []RecipeLine `json:"recipe_lines"`
	UnmatchedNames     []string     `json:"unmatched_names"`
	CreatedIngredients []Ingredient `json:"created_ingredients"`
}

// LineCost 單行成本
// Source 標示成本來源：cached／supplier／inventory／none
type LineCost struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Cost         float64 `json:"cost"`
	Source       string  `json:"source"`
}

// CostSummary 整份食譜成本彙總
type CostSummary struct {
	PerLine       []LineCost `json:"per_line"`
	TotalCost     float64    `json:"total_cost"`
	Profit        float64    `json:"profit"`
	MarginPercent float64    `json:"margin_percent"`
	MarginBand    string     `json:"margin_band"`
}

// FormatParsedIngredients 將萃取條目格式化為可讀字串（日誌與除錯用）
func FormatParsedIngredients(parsed []ParsedIngredient) string {
	var sb strings.Builder
	for _, p := range parsed {
		sb.WriteString(fmt.Sprintf("- %s: %g %s\n", p.Name, p.Quantity, p.Unit))
	}
	return sb.String()
}

// Float64Ptr 回傳 float64 指標（選填欄位建構用）
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr 回傳 string 指標（選填欄位建構用）
func StringPtr(s string) *string {
	return &s
}
