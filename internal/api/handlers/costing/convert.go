package costing

import (
	"net/http"

	"recipe-costing/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ConvertRequest 單位換算請求
type ConvertRequest struct {
	Quantity       float64 `json:"quantity"`
	RecipeUnit     string  `json:"recipe_unit" binding:"required"`
	CanonicalUnit  string  `json:"canonical_unit" binding:"required"`
	IngredientName string  `json:"ingredient_name"`
}

// HandleConvert 食譜單位換算為標準單位
func (h *Handler) HandleConvert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	result := h.units.Convert(req.Quantity, req.RecipeUnit, req.CanonicalUnit, req.IngredientName)
	c.JSON(http.StatusOK, result)
}

// LabelRequest 數量顯示標籤請求
// Ingredient 不強制驗證：零值食材也有明確的退化標籤
type LabelRequest struct {
	Ingredient common.Ingredient `json:"ingredient"`
	PieceCount float64           `json:"piece_count"`
	Quantity   float64           `json:"quantity"`
}

// HandleLabel 推測數量的顯示單位標籤
func (h *Handler) HandleLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	label := h.units.LabelFor(req.Ingredient, req.PieceCount, req.Quantity)
	c.JSON(http.StatusOK, gin.H{
		"label": label,
	})
}
