package costing

import (
	"recipe-costing/internal/core/catalog"
	"recipe-costing/internal/core/costing"
	"recipe-costing/internal/core/extraction"
	"recipe-costing/internal/core/inventory"
	"recipe-costing/internal/infrastructure/config"
)

// Handler 成本計算處理器
// extractor 在萃取服務停用時為 nil，ingest 端點會回報 503
type Handler struct {
	config     *config.Config
	store      inventory.Store
	catalog    catalog.Catalog
	units      *costing.UnitConverter
	prices     *costing.PriceResolver
	calculator *costing.CostCalculator
	reconciler *costing.Reconciler
	extractor  *extraction.Client
}

// NewHandler 創建成本計算處理器
func NewHandler(cfg *config.Config, store inventory.Store, cat catalog.Catalog, extractor *extraction.Client) *Handler {
	units := costing.NewUnitConverter(cfg.Costing)
	return &Handler{
		config:     cfg,
		store:      store,
		catalog:    cat,
		units:      units,
		prices:     costing.NewPriceResolver(),
		calculator: costing.NewCostCalculator(),
		reconciler: costing.NewReconciler(store, units),
		extractor:  extractor,
	}
}
