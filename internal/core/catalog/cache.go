package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-costing/internal/infrastructure/config"
	"recipe-costing/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedCatalog 以 Redis 快取目錄快照的裝飾層
// 快取失效或 Redis 故障時退回直接讀取，絕不讓快取問題變成請求失敗
type CachedCatalog struct {
	inner  Catalog
	client *redis.Client
	config *config.Config
}

// NewCachedCatalog 創建目錄快取層並測試 Redis 連線
func NewCachedCatalog(inner Catalog, cfg *config.Config) (*CachedCatalog, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CachedCatalog{
		inner:  inner,
		client: client,
		config: cfg,
	}, nil
}

// List 先查快照快取，未命中再讀來源並回填
func (c *CachedCatalog) List(ctx context.Context, restaurantID string) ([]common.SupplierProduct, error) {
	key := c.snapshotKey(restaurantID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var products []common.SupplierProduct
		if err := json.Unmarshal(data, &products); err == nil {
			common.LogCacheHit("catalog", key)
			return products, nil
		}
		// 快照損毀，視同未命中
		common.LogWarn("目錄快照解析失敗，改讀來源", zap.String("鍵", key))
	} else if err != redis.Nil {
		common.LogWarn("目錄快取讀取失敗，改讀來源",
			zap.Error(err),
			zap.String("鍵", key),
		)
	} else {
		common.LogCacheMiss("catalog", key)
	}

	products, err := c.inner.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := c.client.Set(ctx, key, data, c.config.Cache.TTL).Err(); err != nil {
			common.LogWarn("目錄快照寫入失敗", zap.Error(err), zap.String("鍵", key))
		}
	}

	return products, nil
}

// snapshotKey 生成快照鍵
func (c *CachedCatalog) snapshotKey(restaurantID string) string {
	return fmt.Sprintf("catalog:snapshot:%s", restaurantID)
}

// Close 關閉 Redis 連線
func (c *CachedCatalog) Close() error {
	return c.client.Close()
}
