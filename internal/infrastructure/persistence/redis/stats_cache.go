package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/inventory/internal/domain/stock"
)

// StatsCache 商品库存统计缓存
//
// 设计说明：
// 1. Cache-Aside模式——查询先读缓存，未命中时回源DB并回填
// 2. 写路径（预留/释放/调整）只做失效，不做更新，避免并发写导致脏数据
// 3. 缓存故障降级：任何Redis错误都不影响主流程，只记日志
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache 创建统计缓存
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) key(productID uint) string {
	return fmt.Sprintf("inventory:stats:%d", productID)
}

// Get 读取缓存的商品统计（未命中或出错返回nil）
func (c *StatsCache) Get(ctx context.Context, productID uint) *stock.ProductStats {
	data, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("读取统计缓存失败 product_id=%d: %v", productID, err)
		}
		return nil
	}

	var stats stock.ProductStats
	if err := json.Unmarshal(data, &stats); err != nil {
		log.Printf("解析统计缓存失败 product_id=%d: %v", productID, err)
		return nil
	}

	return &stats
}

// Set 回填商品统计缓存
func (c *StatsCache) Set(ctx context.Context, stats *stock.ProductStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("序列化统计缓存失败 product_id=%d: %v", stats.ProductID, err)
		return
	}

	if err := c.client.Set(ctx, c.key(stats.ProductID), data, c.ttl).Err(); err != nil {
		log.Printf("写入统计缓存失败 product_id=%d: %v", stats.ProductID, err)
	}
}

// Invalidate 失效商品统计缓存（库存变更后调用）
func (c *StatsCache) Invalidate(ctx context.Context, productID uint) {
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		log.Printf("失效统计缓存失败 product_id=%d: %v", productID, err)
	}
}
