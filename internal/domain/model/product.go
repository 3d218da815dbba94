package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1出品=1点。決済が終わるとIsArchivedになり再購入できない。
type Product struct {
	ID         string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	StoreID    string          `gorm:"type:varchar(64);not null;index" json:"store_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsArchived bool            `gorm:"not null;default:false;index" json:"is_archived"`
	Images     []Image         `gorm:"foreignKey:ProductID" json:"images"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type Image struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	ProductID string    `gorm:"type:varchar(64);not null;index" json:"product_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 先頭画像のURL（なければ空）
func (p Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
