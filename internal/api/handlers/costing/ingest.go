package costing

import (
	"net/http"
	"strings"

	"recipe-costing/internal/core/costing"
	"recipe-costing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestRequest 食譜文字攝入請求
// 走完整管線：萃取 → 調和 →（可選）成本計算
type IngestRequest struct {
	RestaurantID string  `json:"restaurant_id" binding:"required"`
	Text         string  `json:"text" binding:"required"`
	AutoCreate   bool    `json:"auto_create"`
	Price        float64 `json:"price"`
}

// IngestResponse 食譜文字攝入響應
type IngestResponse struct {
	Ingredients []common.ParsedIngredient `json:"ingredients"`
	Yield       float64                   `json:"yield,omitempty"`
	Resolve     common.ResolveResult      `json:"resolve"`
	Cost        *common.CostSummary       `json:"cost,omitempty"`
}

// HandleIngest 從自由文字一路算到成本
func (h *Handler) HandleIngest(c *gin.Context) {
	requestID := requestid.Get(c)

	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": common.ErrExtractionService.Error(),
			"code":  "EXTRACTION_DISABLED",
		})
		return
	}

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid ingest request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
		})
		return
	}

	// 萃取食材條目
	extracted, err := h.extractor.ExtractIngredients(c.Request.Context(), req.Text)
	if err != nil {
		common.LogError("Ingredient extraction failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": common.ErrExtractionService.Error(),
		})
		return
	}

	common.LogDebug("Extraction result",
		zap.Int("count", len(extracted.Ingredients)),
		zap.Float64("yield", extracted.Yield),
		zap.String("ingredients", common.FormatParsedIngredients(extracted.Ingredients)),
		zap.String("request_id", requestID),
	)

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

	result := h.reconciler.Resolve(c.Request.Context(), req.RestaurantID, extracted.Ingredients, inv, costing.ResolveOptions{
		AutoCreate: req.AutoCreate,
		Yield:      extracted.Yield,
	})

	resp := IngestResponse{
		Ingredients: extracted.Ingredients,
		Yield:       extracted.Yield,
		Resolve:     result,
	}

	// 有售價才順帶算成本；新建食材已在庫存裡，重讀一次拿到完整清單
	if req.Price > 0 {
		inv, err = h.store.List(c.Request.Context(), req.RestaurantID)
		if err == nil {
			products, catErr := h.catalog.List(c.Request.Context(), req.RestaurantID)
			if catErr != nil {
				common.LogWarn("Catalog unavailable during ingest costing",
					zap.Error(catErr),
					zap.String("request_id", requestID),
				)
				products = nil
			}
			summary := h.calculator.ComputeCosts(result.RecipeLines, inv, products, req.Price)
			resp.Cost = &summary
		}
	}

	common.LogInfo("Recipe ingest completed",
		zap.String("restaurant_id", req.RestaurantID),
		zap.Int("extracted", len(extracted.Ingredients)),
		zap.Int("lines", len(result.RecipeLines)),
		zap.Int("unmatched", len(result.UnmatchedNames)),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, resp)
}
