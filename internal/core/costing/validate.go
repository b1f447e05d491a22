package costing

import (
	"fmt"

	"recipe-costing/internal/pkg/common"
)

// ValidateLines 送出前驗證食譜行
// 同一食材出現在兩行是驗證錯誤，需回報使用者並阻擋儲存——
// 與調和器在 AI 匯入時的自動合併刻意不對稱：手動重複輸入應被指出，而非默默合併
func ValidateLines(lines []common.RecipeLine) error {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.IngredientID == "" {
			continue
		}
		if seen[line.IngredientID] {
			return common.NewValidationError(
				fmt.Sprintf("duplicate ingredient in recipe: %s", line.IngredientID),
			)
		}
		seen[line.IngredientID] = true
	}
	return nil
}
