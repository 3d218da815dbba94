package model

import "time"

// 送り主・届け先の情報。注文IDは後から紐付くこともある。
// 1注文につき1件（order_idのユニーク制約）。
type ShipmentForm struct {
	ID               string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	OrderID          *string   `gorm:"type:varchar(64);uniqueIndex" json:"order_id"`
	SenderName       string    `gorm:"type:varchar(255);not null" json:"sender_name"`
	SenderPhone      string    `gorm:"type:varchar(50);not null" json:"sender_phone"`
	RecipientName    string    `gorm:"type:varchar(255);not null" json:"recipient_name"`
	RecipientPhone   string    `gorm:"type:varchar(50);not null" json:"recipient_phone"`
	RecipientAddress string    `gorm:"type:text;not null" json:"recipient_address"`
	AdditionalNotes  string    `gorm:"type:text" json:"additional_notes"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
