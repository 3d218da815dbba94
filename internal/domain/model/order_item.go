package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文時点の商品スナップショット。作成後は変更しない。
type OrderItem struct {
	ID              string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	OrderID         string          `gorm:"type:varchar(64);not null;index" json:"order_id"`
	ProductID       *string         `gorm:"type:varchar(64);index" json:"product_id"`
	ProductName     string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	ProductImageURL string          `gorm:"type:text" json:"product_image_url"`
	Position        int             `gorm:"not null;default:0" json:"position"` // checkout時の並び順
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
