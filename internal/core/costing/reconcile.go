package costing

import (
	"context"
	"strings"

	"recipe-costing/internal/core/inventory"
	"recipe-costing/internal/pkg/common"

	"go.uber.org/zap"
)

// ResolveOptions 調和選項
// Yield 為食譜產出的份數，大於 1 時把整份食譜量換算為每份量
type ResolveOptions struct {
	AutoCreate bool
	Yield      float64
}

// Reconciler 食材調和器
// 把鬆散的萃取條目對應到既有庫存，必要時建立新食材，
// 最後去重並做份數正規化
type Reconciler struct {
	store inventory.Store
	units *UnitConverter
}

// NewReconciler 創建食材調和器
func NewReconciler(store inventory.Store, units *UnitConverter) *Reconciler {
	return &Reconciler{
		store: store,
		units: units,
	}
}

// Resolve 把萃取條目調和為食譜行
// 逐條依序處理：比對 → 必要時建立 → 單位換算 → 份數正規化，最後合併重複食材。
// 批次內建立的食材以本地累加器記住，讓後續條目能在寫入前就比對到；
// 建立失敗的條目進 UnmatchedNames，不中斷整批處理
func (r *Reconciler) Resolve(ctx context.Context, restaurantID string, parsed []common.ParsedIngredient, inv []common.Ingredient, opts ResolveOptions) common.ResolveResult {
	result := common.ResolveResult{
		RecipeLines:        []common.RecipeLine{},
		UnmatchedNames:     []string{},
		CreatedIngredients: []common.Ingredient{},
	}

	// 批次內已建立的食材：顯式累加器，讓後續條目在寫入前就能比對到，
	// 也保證同一正規化名稱在本批次內不會觸發第二次建立
	var createdThisBatch []common.Ingredient
	var lines []common.RecipeLine

	for _, entry := range parsed {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			// 缺名稱的萃取條目直接略過
			continue
		}

		match, found := findMatch(name, inv, createdThisBatch)
		if !found {
			if !opts.AutoCreate {
				result.UnmatchedNames = append(result.UnmatchedNames, name)
				continue
			}

			created, err := r.createIngredient(ctx, restaurantID, name, entry)
			if err != nil {
				common.LogError("食材建立失敗",
					zap.Error(err),
					zap.String("名稱", name),
					zap.String("restaurant_id", restaurantID),
				)
				result.UnmatchedNames = append(result.UnmatchedNames, name)
				continue
			}
			createdThisBatch = append(createdThisBatch, created)
			result.CreatedIngredients = append(result.CreatedIngredients, created)
			match = created
		} else {
			r.backfillCost(ctx, match, entry)
		}

		lines = append(lines, r.buildLine(match, entry, opts))
	}

	result.RecipeLines = mergeLines(lines)

	common.LogInfo("食材調和完成",
		zap.Int("條目數", len(parsed)),
		zap.Int("食譜行數", len(result.RecipeLines)),
		zap.Int("未比對數", len(result.UnmatchedNames)),
		zap.Int("新建食材數", len(result.CreatedIngredients)),
	)
	return result
}

// createIngredient 以萃取條目建立新食材
// 標準單位沿用萃取單位；成本缺漏或為負時預設 0
func (r *Reconciler) createIngredient(ctx context.Context, restaurantID, name string, entry common.ParsedIngredient) (common.Ingredient, error) {
	unit := strings.TrimSpace(entry.Unit)
	if unit == "" {
		unit = "piece"
	}

	cost := 0.0
	if entry.CostPerUnit != nil && *entry.CostPerUnit > 0 {
		cost = *entry.CostPerUnit
	}

	return r.store.Create(ctx, restaurantID, common.Ingredient{
		Name:        name,
		Unit:        unit,
		CostPerUnit: cost,
	})
}

// backfillCost 以 AI 回報的成本補上既有食材的零成本
// 盡力而為的回寫：失敗只記日誌，不影響整批調和結果
func (r *Reconciler) backfillCost(ctx context.Context, ing common.Ingredient, entry common.ParsedIngredient) {
	if ing.CostPerUnit != 0 || entry.CostPerUnit == nil || *entry.CostPerUnit <= 0 {
		return
	}
	if _, err := r.store.Update(ctx, ing.ID, inventory.IngredientPatch{CostPerUnit: entry.CostPerUnit}); err != nil {
		common.LogWarn("成本回填失敗",
			zap.Error(err),
			zap.String("ingredient_id", ing.ID),
		)
	}
}

// buildLine 換算單位並套用份數正規化，組出食譜行
func (r *Reconciler) buildLine(ing common.Ingredient, entry common.ParsedIngredient, opts ResolveOptions) common.RecipeLine {
	conv := r.units.Convert(entry.Quantity, entry.Unit, ing.Unit, ing.Name)

	quantity := conv.Quantity
	pieceCount := conv.PieceCount
	if pieceCount == nil && entry.PieceCount != nil {
		pc := *entry.PieceCount
		pieceCount = &pc
	}

	// 份數正規化在單位換算之後，把整份食譜量變成每份量
	if opts.Yield > 1 {
		quantity /= opts.Yield
		if pieceCount != nil {
			scaled := *pieceCount / opts.Yield
			pieceCount = &scaled
		}
	}

	return common.RecipeLine{
		IngredientID: ing.ID,
		Quantity:     quantity,
		PieceCount:   pieceCount,
	}
}

// findMatch 依序嘗試：完全相等 → 雙向子字串 → 詞彙重疊
// 先搜既有庫存，再搜批次內新建的食材；同級多個候選時依疊代順序取第一個
func findMatch(name string, inv []common.Ingredient, createdThisBatch []common.Ingredient) (common.Ingredient, bool) {
	pool := make([]common.Ingredient, 0, len(inv)+len(createdThisBatch))
	pool = append(pool, inv...)
	pool = append(pool, createdThisBatch...)

	target := common.NormalizeName(name)

	// (1) 完全相等（不分大小寫）
	for _, ing := range pool {
		if common.NormalizeName(ing.Name) == target {
			return ing, true
		}
	}

	// (2) 雙向子字串
	for _, ing := range pool {
		candidate := common.NormalizeName(ing.Name)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
			return ing, true
		}
	}

	// (3) 詞彙重疊：任一邊長度大於 2 的詞出現在另一邊名稱中
	for _, ing := range pool {
		if tokenOverlap(target, common.NormalizeName(ing.Name)) {
			return ing, true
		}
	}

	return common.Ingredient{}, false
}

// tokenOverlap 檢查兩名稱是否有詞彙重疊
func tokenOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	for _, word := range strings.Fields(a) {
		if len(word) > 2 && strings.Contains(b, word) {
			return true
		}
	}
	for _, word := range strings.Fields(b) {
		if len(word) > 2 && strings.Contains(a, word) {
			return true
		}
	}
	return false
}

// mergeLines 合併指向同一食材的行
// 數量相加；PieceCount 兩邊皆有值才相加，否則保留有值的一邊
func mergeLines(lines []common.RecipeLine) []common.RecipeLine {
	merged := make([]common.RecipeLine, 0, len(lines))
	index := make(map[string]int)

	for _, line := range lines {
		i, seen := index[line.IngredientID]
		if !seen {
			index[line.IngredientID] = len(merged)
			merged = append(merged, line)
			continue
		}

		merged[i].Quantity += line.Quantity
		merged[i].PieceCount = mergePieceCount(merged[i].PieceCount, line.PieceCount)
	}
	return merged
}

// mergePieceCount 合併顯示數量
func mergePieceCount(a, b *float64) *float64 {
	switch {
	case a != nil && b != nil:
		sum := *a + *b
		return &sum
	case a != nil:
		return a
	default:
		return b
	}
}
