package events

import (
	"time"

	"github.com/google/uuid"
)

// 事件路由键（topic交换机）
const (
	TopicReserved      = "inventory.reserved"
	TopicReleased      = "inventory.released"
	TopicAdjusted      = "inventory.adjusted"
	TopicLowStockAlert = "inventory.low-stock-alert"
	TopicUpdated       = "inventory.updated"
)

// SourceService 事件来源服务标识
const SourceService = "inventory-management-service"

// Envelope 事件信封（所有事件共用的外层结构）
// 设计说明：
// 1. EventID全局唯一，消费端用于幂等去重
// 2. CorrelationID串联一次业务操作产生的多条事件
// 3. Version标识事件结构版本，便于消费端兼容演进
type Envelope struct {
	EventID       string      `json:"event_id"`
	EventType     string      `json:"event_type"`
	CorrelationID string      `json:"correlation_id"`
	SourceService string      `json:"source_service"`
	Timestamp     time.Time   `json:"timestamp"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
}

// NewEnvelope 构造事件信封
// correlationID为空时自动生成（单事件场景）
func NewEnvelope(eventType, correlationID string, data interface{}) *Envelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return &Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		CorrelationID: correlationID,
		SourceService: SourceService,
		Timestamp:     time.Now().UTC(),
		Version:       "1.0",
		Data:          data,
	}
}

// ReservedData 库存预留成功事件
type ReservedData struct {
	ReservationID uint      `json:"reservation_id"`
	ProductID     uint      `json:"product_id"`
	LocationID    uint      `json:"location_id"`
	OrderID       uint      `json:"order_id"`
	Quantity      int       `json:"quantity"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ReleasedData 预留释放事件（主动释放或过期回收）
type ReleasedData struct {
	ReservationID uint   `json:"reservation_id"`
	ProductID     uint   `json:"product_id"`
	LocationID    uint   `json:"location_id"`
	OrderID       uint   `json:"order_id"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"` // manual | order | expired
}

// AdjustedData 库存调整事件
type AdjustedData struct {
	ProductID      uint   `json:"product_id"`
	LocationID     uint   `json:"location_id"`
	AdjustmentType string `json:"adjustment_type"`
	Quantity       int    `json:"quantity"`
	BeforeQuantity int    `json:"before_quantity"`
	AfterQuantity  int    `json:"after_quantity"`
	Reason         string `json:"reason"`
	CreatedBy      string `json:"created_by"`
}

// 低库存告警级别
const (
	AlertWarning  = "warning"  // available <= reorder_point
	AlertCritical = "critical" // available <= reorder_point / 2
	AlertUrgent   = "urgent"   // available == 0
)

// AlertLevel 根据可用量与补货点计算告警级别
func AlertLevel(available, reorderPoint int) string {
	switch {
	case available == 0:
		return AlertUrgent
	case available <= reorderPoint/2:
		return AlertCritical
	default:
		return AlertWarning
	}
}

// LowStockAlertData 低库存告警事件
// 仅在库存从正常跌入低位时发出一次，避免每次变更重复告警
type LowStockAlertData struct {
	ProductID       uint   `json:"product_id"`
	LocationID      uint   `json:"location_id"`
	Available       int    `json:"available"`
	ReorderPoint    int    `json:"reorder_point"`
	ReorderQuantity int    `json:"reorder_quantity"`
	Shortage        int    `json:"shortage"`
	Level           string `json:"level"`
}

// UpdatedData 库存变更通知事件（预留/释放/调整后的最新快照）
type UpdatedData struct {
	ProductID       uint   `json:"product_id"`
	LocationID      uint   `json:"location_id"`
	Available       int    `json:"available"`
	Reserved        int    `json:"reserved"`
	UpdateType      string `json:"update_type"` // reserved | released | adjusted
	BeforeAvailable int    `json:"before_available"`
	BeforeReserved  int    `json:"before_reserved"`
}
