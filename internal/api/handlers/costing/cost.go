package costing

import (
	"net/http"

	"recipe-costing/internal/core/costing"
	"recipe-costing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CostRequest 成本計算請求
// Price 為菜單售價，為 0 時僅回報成本不計算毛利
type CostRequest struct {
	RestaurantID string              `json:"restaurant_id" binding:"required"`
	Lines        []common.RecipeLine `json:"lines" binding:"required"`
	Price        float64             `json:"price"`
}

// HandleCost 計算整份食譜成本與毛利
func (h *Handler) HandleCost(c *gin.Context) {
	requestID := requestid.Get(c)

	var req CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid cost request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	if err := costing.ValidateLines(req.Lines); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrDuplicateIngredient.Code,
		})
		return
	}

	inv, err := h.store.List(c.Request.Context(), req.RestaurantID)
	if err != nil {
		common.LogError("Failed to load inventory",
			zap.Error(err),
			zap.String("restaurant_id", req.RestaurantID),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": common.ErrIngredientStoreError.Error(),
		})
		return
	}

	// 目錄讀不到時退化為庫存成本，不讓整次計算失敗
	products, err := h.catalog.List(c.Request.Context(), req.RestaurantID)
	if err != nil {
		common.LogWarn("Catalog unavailable, falling back to inventory costs",
			zap.Error(err),
			zap.String("restaurant_id", req.RestaurantID),
			zap.String("request_id", requestID),
		)
		products = nil
	}

	summary := h.calculator.ComputeCosts(req.Lines, inv, products, req.Price)

	common.LogInfo("Recipe cost computed",
		zap.String("restaurant_id", req.RestaurantID),
		zap.Int("lines", len(req.Lines)),
		zap.Float64("total_cost", summary.TotalCost),
		zap.Float64("margin_percent", summary.MarginPercent),
		zap.String("margin_band", summary.MarginBand),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, summary)
}

// ValidateRequest 食譜行驗證請求
type ValidateRequest struct {
	Lines []common.RecipeLine `json:"lines" binding:"required"`
}

// HandleValidate 驗證食譜行（重複食材檢查）
func (h *Handler) HandleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	if err := costing.ValidateLines(req.Lines); err != nil {
		status := http.StatusInternalServerError
		code := common.ErrCodeInternalError
		if common.IsValidationError(err) {
			status = http.StatusBadRequest
			code = common.ErrDuplicateIngredient.Code
		}
		c.JSON(status, gin.H{
			"valid": false,
			"error": err.Error(),
			"code":  code,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
	})
}
