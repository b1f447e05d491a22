package costing

import (
	"math"
	"strings"

	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"
)

// 正規化後的單位代碼
const (
	unitTsp   = "tsp"
	unitTbsp  = "tbsp"
	unitCup   = "cup"
	unitML    = "ml"
	unitLiter = "l"
	unitKg    = "kg"
	unitGram  = "g"
	unitPiece = "piece"
)

// unitAliases 將常見寫法對應到單位代碼
var unitAliases = map[string]string{
	"tsp":         unitTsp,
	"teaspoon":    unitTsp,
	"teaspoons":   unitTsp,
	"tbsp":        unitTbsp,
	"tablespoon":  unitTbsp,
	"tablespoons": unitTbsp,
	"cup":         unitCup,
	"cups":        unitCup,
	"ml":          unitML,
	"milliliter":  unitML,
	"millilitre":  unitML,
	"milliliters": unitML,
	"millilitres": unitML,
	"l":           unitLiter,
	"liter":       unitLiter,
	"litre":       unitLiter,
	"liters":      unitLiter,
	"litres":      unitLiter,
	"kg":          unitKg,
	"kilogram":    unitKg,
	"kilograms":   unitKg,
	"g":           unitGram,
	"gram":        unitGram,
	"grams":       unitGram,
	"piece":       unitPiece,
	"pieces":      unitPiece,
	"pc":          unitPiece,
	"pcs":         unitPiece,
}

// recipeUnitLabels 換算成功時回傳的單位標籤
var recipeUnitLabels = map[string]string{
	unitTsp:  "tsp",
	unitTbsp: "tbsp",
	unitCup:  "cups",
	unitML:   "ml",
}

// UnitConverter 單位換算器
// 在食譜單位（tsp、tbsp、cup、ml）與食材標準單位（kg、L）之間換算，
// 以食材名稱關鍵字挑選換算係數；未知組合一律原樣通過，不報錯
type UnitConverter struct {
	saltKeywords     []string
	dryGoodsKeywords []string
}

// NewUnitConverter 創建單位換算器，關鍵字列表來自設定
func NewUnitConverter(cfg config.CostingConfig) *UnitConverter {
	return &UnitConverter{
		saltKeywords:     cfg.SaltKeywords,
		dryGoodsKeywords: cfg.DryGoodsKeywords,
	}
}

// normalizeUnit 正規化單位字串
func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if code, ok := unitAliases[u]; ok {
		return code
	}
	return u
}

// matchesAny 檢查名稱是否包含任一關鍵字（不分大小寫）
func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Convert 將（數量, 食譜單位）換算為食材的標準單位
// 換算成功時 PieceCount 保留原始食譜單位數量供顯示、RecipeUnit 回傳單位標籤；
// 單位相同或無規則可用時原樣通過，兩者皆為 null
func (u *UnitConverter) Convert(quantity float64, recipeUnit, canonicalUnit, ingredientName string) common.ConvertedQuantity {
	from := normalizeUnit(recipeUnit)
	to := normalizeUnit(canonicalUnit)

	// 單位相同（不分大小寫）直接通過
	if from == to {
		return common.ConvertedQuantity{Quantity: quantity}
	}

	factor, ok := u.factorFor(from, to, ingredientName)
	if !ok {
		return common.ConvertedQuantity{Quantity: quantity}
	}

	label := recipeUnitLabels[from]
	return common.ConvertedQuantity{
		Quantity:   quantity * factor,
		PieceCount: common.Float64Ptr(quantity),
		RecipeUnit: common.StringPtr(label),
	}
}

// factorFor 查出第一個符合的固定係數規則
func (u *UnitConverter) factorFor(from, to, ingredientName string) (float64, bool) {
	switch {
	case from == unitTsp && to == unitKg:
		// 鹽類密度較高
		if matchesAny(ingredientName, u.saltKeywords) {
			return 0.006, true
		}
		return 0.005, true
	case from == unitTbsp && to == unitKg:
		return 0.015, true
	case from == unitML && to == unitLiter:
		return 0.001, true
	case from == unitTsp && to == unitLiter:
		return 0.005, true
	case from == unitTbsp && to == unitLiter:
		return 0.015, true
	case from == unitCup && to == unitKg:
		// 只有乾貨（米、豆、麵粉等）才有可靠的杯重
		if matchesAny(ingredientName, u.dryGoodsKeywords) {
			return 0.2, true
		}
		return 0, false
	}
	return 0, false
}

// LabelFor 從 pieceCount 與標準數量的比值反推顯示標籤
// 屬盡力而為的啟發式，並非換算的精確反函數；
// 比值落在容差帶之外時退回 piece／item
func (u *UnitConverter) LabelFor(ing common.Ingredient, pieceCount, quantity float64) string {
	unit := normalizeUnit(ing.Unit)

	if pieceCount > 0 && quantity > 0 && (unit == unitKg || unit == unitLiter) {
		// ml 的比值約 1000，會先落入 tsp 的比值帶，容差檢查必須在前；
		// tsp 換算出的公升量（pieceCount×0.005）過不了這個容差，不會誤判
		if unit == unitLiter && math.Abs(quantity-pieceCount/1000) < 0.001 {
			return "ml"
		}
		ratio := pieceCount / quantity
		if ratio > 100 {
			return "tsp"
		}
		if ratio > 30 {
			return "tbsp"
		}
		if unit == unitKg && matchesAny(ing.Name, u.dryGoodsKeywords) &&
			math.Abs(quantity-pieceCount*0.2) < 0.05 {
			return "cups"
		}
	}

	if unit == unitPiece {
		return "piece"
	}
	return "item"
}
