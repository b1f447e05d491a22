package catalog

import (
	"context"
	"fmt"
	"sync"

	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Catalog 供應商目錄介面（唯讀快照）
// 查詢為唯讀且冪等，可安全重試，各次呼叫之間無順序要求
type Catalog interface {
	List(ctx context.Context, restaurantID string) ([]common.SupplierProduct, error)
}

// Open 依設定開啟供應商目錄；DSN 留空時使用記憶體目錄，
// 啟用快取時外層再包一層 Redis 快照快取
func Open(cfg *config.Config) (Catalog, error) {
	var cat Catalog
	if cfg.Database.DSN == "" {
		cat = NewMemoryCatalog()
	} else {
		pg, err := NewPostgresCatalog(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		cat = pg
	}

	if cfg.Cache.Enabled {
		cached, err := NewCachedCatalog(cat, cfg)
		if err != nil {
			return nil, err
		}
		cat = cached
	}
	return cat, nil
}

// MemoryCatalog 記憶體供應商目錄（測試與開發預設）
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string][]common.SupplierProduct
}

// NewMemoryCatalog 創建記憶體目錄
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[string][]common.SupplierProduct),
	}
}

// Seed 預填商品（測試用）
func (c *MemoryCatalog) Seed(restaurantID string, products []common.SupplierProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[restaurantID] = append(c.products[restaurantID], products...)
}

// List 取得餐廳可見的商品快照
func (c *MemoryCatalog) List(ctx context.Context, restaurantID string) ([]common.SupplierProduct, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored := c.products[restaurantID]
	out := make([]common.SupplierProduct, len(stored))
	copy(out, stored)
	return out, nil
}

// PostgresCatalog PostgreSQL 供應商目錄
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog 連線並建立必要資料表
func NewPostgresCatalog(dataSourceName string) (*PostgresCatalog, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS supplier_products (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		pack_size DOUBLE PRECISION NOT NULL DEFAULT 0,
		pack_unit TEXT NOT NULL DEFAULT '',
		supplier_id TEXT NOT NULL DEFAULT '',
		supplier_name TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION,
		currency TEXT NOT NULL DEFAULT '',
		unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		global_ingredient_id TEXT,
		category TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create supplier_products table: %w", err)
	}

	return &PostgresCatalog{db: db}, nil
}

// List 取得餐廳可見的商品快照
func (c *PostgresCatalog) List(ctx context.Context, restaurantID string) ([]common.SupplierProduct, error) {
	rows, err := c.db.QueryxContext(ctx,
		`SELECT id, name, pack_size, pack_unit, supplier_id, supplier_name, price, currency,
			unit_cost, COALESCE(global_ingredient_id, ''), category, brand
		 FROM supplier_products WHERE restaurant_id = $1 ORDER BY name`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier products: %w", err)
	}
	defer rows.Close()

	var products []common.SupplierProduct
	for rows.Next() {
		var p common.SupplierProduct
		if err := rows.Scan(
			&p.ID, &p.Name, &p.PackSize, &p.PackUnit, &p.SupplierID, &p.SupplierName,
			&p.Price, &p.Currency, &p.UnitCost, &p.GlobalIngredientID, &p.Category, &p.Brand,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}
