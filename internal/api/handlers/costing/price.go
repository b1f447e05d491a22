package costing

import (
	"net/http"

	"recipe-costing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceRequest 供應商定價請求
// SupplierHint 非空時優先挑該供應商的商品，找不到再退回全部候選
type PriceRequest struct {
	RestaurantID string              `json:"restaurant_id" binding:"required"`
	Lines        []common.RecipeLine `json:"lines" binding:"required"`
	SupplierHint string              `json:"supplier_hint"`
}

// PriceResponse 供應商定價響應
type PriceResponse struct {
	Lines    []common.RecipeLine `json:"lines"`
	Unpriced []string            `json:"unpriced_ingredient_ids"`
}

// HandlePrice 為每一行食譜挑選最佳供應商商品並回填快取成本
func (h *Handler) HandlePrice(c *gin.Context) {
	requestID := requestid.Get(c)

	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid price request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Error(),
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

	products, err := h.catalog.List(c.Request.Context(), req.RestaurantID)
	if err != nil {
		common.LogError("Failed to load supplier catalog",
			zap.Error(err),
			zap.String("restaurant_id", req.RestaurantID),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": common.ErrCatalogUnavailable.Error(),
		})
		return
	}

	byID := make(map[string]common.Ingredient, len(inv))
	for _, ing := range inv {
		byID[ing.ID] = ing
	}

	resp := PriceResponse{
		Lines:    make([]common.RecipeLine, 0, len(req.Lines)),
		Unpriced: []string{},
	}
	for _, line := range req.Lines {
		ing, ok := byID[line.IngredientID]
		if !ok {
			// 不在庫存裡的行原樣保留
			resp.Lines = append(resp.Lines, line)
			resp.Unpriced = append(resp.Unpriced, line.IngredientID)
			continue
		}
		// 供應商偏好走行內欄位，請求層的提示只是批次覆寫
		if req.SupplierHint != "" {
			line.SupplierName = req.SupplierHint
		}
		h.prices.AutoFillCost(&line, ing, products)
		if line.SupplierProductID != "" && line.Currency == "" {
			line.Currency = h.config.Costing.DefaultCurrency
		}
		if line.SupplierProductID == "" {
			resp.Unpriced = append(resp.Unpriced, line.IngredientID)
		}
		resp.Lines = append(resp.Lines, line)
	}

	common.LogInfo("Supplier pricing completed",
		zap.String("restaurant_id", req.RestaurantID),
		zap.Int("lines", len(req.Lines)),
		zap.Int("unpriced", len(resp.Unpriced)),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, resp)
}
