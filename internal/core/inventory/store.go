package inventory

import (
	"context"
	"fmt"
	"sync"

	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"

	"github.com/google/uuid"
)

// IngredientPatch 食材部分更新欄位，nil 表示不更動
type IngredientPatch struct {
	Name               *string
	Unit               *string
	CostPerUnit        *float64
	GlobalIngredientID *string
}

// Store 食材儲存介面
// Create 不具冪等性：同一批次內由呼叫端保證不會對同一正規化名稱重複建立
type Store interface {
	List(ctx context.Context, restaurantID string) ([]common.Ingredient, error)
	Create(ctx context.Context, restaurantID string, fields common.Ingredient) (common.Ingredient, error)
	Update(ctx context.Context, id string, patch IngredientPatch) (common.Ingredient, error)
}

// Open 依設定開啟食材儲存；DSN 留空時使用記憶體儲存
func Open(cfg *config.Config) (Store, error) {
	if cfg.Database.DSN == "" {
		return NewMemoryStore(), nil
	}
	return NewPostgresStore(cfg.Database.DSN)
}

// MemoryStore 記憶體食材儲存（測試與開發預設）
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]common.Ingredient // restaurantID → ingredients
}

// NewMemoryStore 創建記憶體食材儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]common.Ingredient),
	}
}

// Seed 預填食材（測試用）
func (s *MemoryStore) Seed(restaurantID string, ingredients []common.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[restaurantID] = append(s.items[restaurantID], ingredients...)
}

// List 列出餐廳的全部食材
func (s *MemoryStore) List(ctx context.Context, restaurantID string) ([]common.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.items[restaurantID]
	out := make([]common.Ingredient, len(stored))
	copy(out, stored)
	return out, nil
}

// Create 建立新食材
func (s *MemoryStore) Create(ctx context.Context, restaurantID string, fields common.Ingredient) (common.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing := fields
	ing.ID = uuid.New().String()
	s.items[restaurantID] = append(s.items[restaurantID], ing)
	return ing, nil
}

// Update 部分更新食材
func (s *MemoryStore) Update(ctx context.Context, id string, patch IngredientPatch) (common.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for restaurantID, list := range s.items {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			applyPatch(&list[i], patch)
			s.items[restaurantID] = list
			return list[i], nil
		}
	}
	return common.Ingredient{}, fmt.Errorf("ingredient not found: %s", id)
}

// applyPatch 套用部分更新
func applyPatch(ing *common.Ingredient, patch IngredientPatch) {
	if patch.Name != nil {
		ing.Name = *patch.Name
	}
	if patch.Unit != nil {
		ing.Unit = *patch.Unit
	}
	if patch.CostPerUnit != nil {
		ing.CostPerUnit = *patch.CostPerUnit
	}
	if patch.GlobalIngredientID != nil {
		ing.GlobalIngredientID = *patch.GlobalIngredientID
	}
}
