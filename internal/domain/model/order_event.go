package model

import "time"

// 決済確定後にKafkaへ流すイベント
type OrderPaidEvent struct {
	OrderID    string    `json:"order_id"`
	StoreID    string    `json:"store_id"`
	UserID     string    `json:"user_id,omitempty"`
	ProductIDs []string  `json:"product_ids"`
	TotalPrice string    `json:"total_price"`
	PaidAt     time.Time `json:"paid_at"`
}

// ステータス更新後に流すイベント
type OrderStatusChangedEvent struct {
	OrderID    string      `json:"order_id"`
	StoreID    string      `json:"store_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ChangedBy  string      `json:"changed_by"`
	ChangedAt  time.Time   `json:"changed_at"`
}
