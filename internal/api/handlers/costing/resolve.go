package costing

import (
	"net/http"

	"recipe-costing/internal/core/costing"
	"recipe-costing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResolveRequest 食材調和請求
type ResolveRequest struct {
	RestaurantID string                    `json:"restaurant_id" binding:"required"`
	Ingredients  []common.ParsedIngredient `json:"ingredients" binding:"required"`
	AutoCreate   bool                      `json:"auto_create"`
	Yield        float64                   `json:"yield"`
}

// HandleResolve 把萃取出的食材條目調和成食譜行
func (h *Handler) HandleResolve(c *gin.Context) {
	requestID := requestid.Get(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid resolve request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	// 讀取餐廳庫存
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

	result := h.reconciler.Resolve(c.Request.Context(), req.RestaurantID, req.Ingredients, inv, costing.ResolveOptions{
		AutoCreate: req.AutoCreate,
		Yield:      req.Yield,
	})

	common.LogInfo("Ingredient resolve completed",
		zap.String("restaurant_id", req.RestaurantID),
		zap.Int("parsed", len(req.Ingredients)),
		zap.Int("lines", len(result.RecipeLines)),
		zap.Int("unmatched", len(result.UnmatchedNames)),
		zap.Int("created", len(result.CreatedIngredients)),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, result)
}
