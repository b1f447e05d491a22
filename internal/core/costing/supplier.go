package costing

import (
	"math"
	"sort"
	"strings"
	"time"

	"recipe-costing/internal/pkg/common"
)

// PriceResolver 供應商報價解析器
// 從供應商目錄挑出最適合的商品並回填食譜行的快取成本欄位
type PriceResolver struct {
	now func() time.Time
}

// NewPriceResolver 創建供應商報價解析器
func NewPriceResolver() *PriceResolver {
	return &PriceResolver{now: time.Now}
}

// FindCandidates 找出目錄中可能對應此食材的商品
// 有 GlobalIngredientID 時只保留同鍵商品；否則以名稱雙向子字串比對
func (r *PriceResolver) FindCandidates(ing common.Ingredient, catalog []common.SupplierProduct) []common.SupplierProduct {
	var candidates []common.SupplierProduct

	if ing.GlobalIngredientID != "" {
		for _, p := range catalog {
			if p.GlobalIngredientID == ing.GlobalIngredientID {
				candidates = append(candidates, p)
			}
		}
		return candidates
	}

	name := common.NormalizeName(ing.Name)
	if name == "" {
		return nil
	}
	for _, p := range catalog {
		pname := common.NormalizeName(p.Name)
		if pname == "" {
			continue
		}
		if strings.Contains(pname, name) || strings.Contains(name, pname) {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

// PickBest 從候選商品中挑出單位成本最低者
// 供應商名稱提示只做過濾；過濾後若為空則退回未過濾的候選集，不報錯。
// 依 unitCost 升冪排序（非有限值視為 +Inf），同值時以名目售價升冪決勝（缺漏視為 +Inf）
func (r *PriceResolver) PickBest(candidates []common.SupplierProduct, supplierHint string) *common.SupplierProduct {
	if len(candidates) == 0 {
		return nil
	}

	pool := candidates
	hint := common.NormalizeName(supplierHint)
	if hint != "" {
		var filtered []common.SupplierProduct
		for _, p := range candidates {
			if matchesHint(p, hint) {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	sorted := make([]common.SupplierProduct, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := effectiveUnitCost(sorted[i]), effectiveUnitCost(sorted[j])
		if ci != cj {
			return ci < cj
		}
		return effectivePrice(sorted[i]) < effectivePrice(sorted[j])
	})

	best := sorted[0]
	return &best
}

// matchesHint 檢查商品的供應商名稱、商品名稱或品牌是否與提示雙向包含
func matchesHint(p common.SupplierProduct, hint string) bool {
	for _, field := range []string{p.SupplierName, p.Name, p.Brand} {
		f := common.NormalizeName(field)
		if f == "" {
			continue
		}
		if strings.Contains(f, hint) || strings.Contains(hint, f) {
			return true
		}
	}
	return false
}

// effectiveUnitCost 非有限值視為 +Inf，排序時自然墊底
func effectiveUnitCost(p common.SupplierProduct) float64 {
	if math.IsNaN(p.UnitCost) || math.IsInf(p.UnitCost, 0) {
		return math.Inf(1)
	}
	return p.UnitCost
}

// effectivePrice 缺漏的名目售價視為 +Inf
func effectivePrice(p common.SupplierProduct) float64 {
	if p.Price == nil || math.IsNaN(*p.Price) {
		return math.Inf(1)
	}
	return *p.Price
}

// AutoFillCost 比對目錄並回填食譜行的供應商成本欄位
// 找到商品時寫入四個欄位；找不到時明確清空，避免殘留過期值
func (r *PriceResolver) AutoFillCost(line *common.RecipeLine, ing common.Ingredient, catalog []common.SupplierProduct) {
	candidates := r.FindCandidates(ing, catalog)
	best := r.PickBest(candidates, line.SupplierName)

	if best == nil {
		line.SupplierProductID = ""
		line.UnitCostCached = nil
		line.Currency = ""
		line.LastPricedAt = nil
		return
	}

	pricedAt := r.now()
	line.SupplierProductID = best.ID
	line.UnitCostCached = common.Float64Ptr(best.UnitCost)
	line.Currency = best.Currency
	line.LastPricedAt = &pricedAt
}
