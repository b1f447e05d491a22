package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-costing/internal/core/catalog"
	"recipe-costing/internal/core/inventory"
	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:     "test",
			Version: "test",
		},
		Costing: config.CostingConfig{
			SaltKeywords:     []string{"salt"},
			DryGoodsKeywords: []string{"rice", "flour"},
			DefaultCurrency:  "VND",
		},
		DedupWindow: 50 * time.Millisecond,
	}
}

func setupTestRouter(t *testing.T) (*httptest.Server, *inventory.MemoryStore, *catalog.MemoryCatalog) {
	t.Helper()

	store := inventory.NewMemoryStore()
	cat := catalog.NewMemoryCatalog()

	router, err := SetupRouter(testConfig(), store, cat, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store, cat
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnitConvertEndpoint(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	resp := postJSON(t, srv.URL+"/api/v1/unit/convert", map[string]interface{}{
		"quantity":        3,
		"recipe_unit":     "tsp",
		"canonical_unit":  "kg",
		"ingredient_name": "Sea Salt",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result common.ConvertedQuantity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.InDelta(t, 0.018, result.Quantity, 1e-9)
	require.NotNil(t, result.PieceCount)
	assert.Equal(t, 3.0, *result.PieceCount)
}

func TestResolveEndpointAutoCreate(t *testing.T) {
	srv, store, _ := setupTestRouter(t)

	resp := postJSON(t, srv.URL+"/api/v1/recipe/resolve", map[string]interface{}{
		"restaurant_id": "r1",
		"auto_create":   true,
		"ingredients": []map[string]interface{}{
			{"name": "Saffron", "quantity": 1, "unit": "g"},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result common.ResolveResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.RecipeLines, 1)
	require.Len(t, result.CreatedIngredients, 1)

	inv, err := store.List(context.Background(), "r1")
	require.NoError(t, err)
	assert.Len(t, inv, 1)
}

func TestCostEndpoint(t *testing.T) {
	srv, store, _ := setupTestRouter(t)
	store.Seed("r1", []common.Ingredient{
		{ID: "i1", Name: "Rice", Unit: "kg", CostPerUnit: 100},
	})

	resp := postJSON(t, srv.URL+"/api/v1/recipe/cost", map[string]interface{}{
		"restaurant_id": "r1",
		"price":         1000,
		"lines": []map[string]interface{}{
			{"ingredient_id": "i1", "quantity": 3},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary common.CostSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 300.0, summary.TotalCost)
	assert.InDelta(t, 70.0, summary.MarginPercent, 1e-9)
	assert.Equal(t, "excellent", summary.MarginBand)
}

func TestCostEndpointRejectsDuplicateLines(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	resp := postJSON(t, srv.URL+"/api/v1/recipe/cost", map[string]interface{}{
		"restaurant_id": "r1",
		"lines": []map[string]interface{}{
			{"ingredient_id": "i1", "quantity": 1},
			{"ingredient_id": "i1", "quantity": 2},
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPriceEndpoint(t *testing.T) {
	srv, store, cat := setupTestRouter(t)
	store.Seed("r1", []common.Ingredient{
		{ID: "i1", Name: "Parmesan", Unit: "kg", CostPerUnit: 30000},
	})
	cat.Seed("r1", []common.SupplierProduct{
		{ID: "p1", Name: "Fresh Parmesan", UnitCost: 40000, Currency: "VND", SupplierName: "Metro"},
	})

	resp := postJSON(t, srv.URL+"/api/v1/recipe/price", map[string]interface{}{
		"restaurant_id": "r1",
		"lines": []map[string]interface{}{
			{"ingredient_id": "i1", "quantity": 0.03},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Lines    []common.RecipeLine `json:"lines"`
		Unpriced []string            `json:"unpriced_ingredient_ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "p1", result.Lines[0].SupplierProductID)
	require.NotNil(t, result.Lines[0].UnitCostCached)
	assert.Equal(t, 40000.0, *result.Lines[0].UnitCostCached)
	assert.Empty(t, result.Unpriced)
}

func TestIngestEndpointDisabled(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	// Extraction client was not configured: the pipeline endpoint must
	// answer 503 instead of silently returning an empty result.
	resp := postJSON(t, srv.URL+"/api/v1/recipe/ingest", map[string]interface{}{
		"restaurant_id": "r1",
		"text":          "2 tbsp parmesan",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLabelEndpointZeroIngredient(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	// An empty ingredient is a valid request: the heuristic falls back
	// to the generic label instead of the handler rejecting it.
	resp := postJSON(t, srv.URL+"/api/v1/unit/label", map[string]interface{}{
		"ingredient":  map[string]interface{}{},
		"piece_count": 2,
		"quantity":    0.5,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "item", result.Label)
}

func TestValidateEndpoint(t *testing.T) {
	srv, _, _ := setupTestRouter(t)

	resp := postJSON(t, srv.URL+"/api/v1/recipe/validate", map[string]interface{}{
		"lines": []map[string]interface{}{
			{"ingredient_id": "i1", "quantity": 1},
			{"ingredient_id": "i2", "quantity": 2},
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
