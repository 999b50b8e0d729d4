package stock

// ProductStats 商品跨库位库存汇总
// 由查询侧聚合所有库位的库存记录计算得出
type ProductStats struct {
	ProductID         uint `json:"product_id"`
	LocationCount     int  `json:"location_count"`
	TotalAvailable    int  `json:"total_available"`
	TotalReserved     int  `json:"total_reserved"`
	TotalQuantity     int  `json:"total_quantity"`
	LowStockLocations int  `json:"low_stock_locations"`
}

// BuildProductStats 从库存记录列表聚合统计
func BuildProductStats(productID uint, records []*Inventory) *ProductStats {
	stats := &ProductStats{ProductID: productID}
	for _, inv := range records {
		stats.LocationCount++
		stats.TotalAvailable += inv.QuantityAvailable
		stats.TotalReserved += inv.QuantityReserved
		stats.TotalQuantity += inv.TotalQuantity()
		if inv.IsLowStock() {
			stats.LowStockLocations++
		}
	}
	return stats
}
