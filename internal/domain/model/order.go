package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 画面で選べる注文ステータス（支払い状態とは別の軸）
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// セレクトボックスの表示順
var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// 注文。IsPaidはwebhookでのみfalse→trueになる。
type Order struct {
	ID        string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	StoreID   string      `gorm:"type:varchar(64);not null;index" json:"store_id"`
	UserID    *string     `gorm:"type:varchar(64);index" json:"user_id"`
	UserName  string      `gorm:"type:varchar(255);not null;default:''" json:"user_name"`
	UserEmail string      `gorm:"type:varchar(255);not null;default:''" json:"user_email"`
	Address   string      `gorm:"type:text" json:"address"`
	Phone     string      `gorm:"type:varchar(50);not null;default:''" json:"phone"`
	IsPaid    bool        `gorm:"not null;default:false" json:"is_paid"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'RECEIVED';index" json:"status"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`

	OrderItems   []OrderItem   `gorm:"foreignKey:OrderID" json:"order_items"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShipmentForm *ShipmentForm `gorm:"foreignKey:OrderID" json:"shipment_form,omitempty"`
}

// 明細価格の合計（数量は常に1）。セント単位で四捨五入。
func (o Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.OrderItems {
		total = total.Add(it.ProductPrice)
	}
	return total.Round(2)
}

// 商品名をカンマ区切りで返す
func (o Order) ProductNames() string {
	names := make([]string, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		names = append(names, it.ProductName)
	}
	return strings.Join(names, ", ")
}

// 明細から参照している商品IDを重複なしで返す（削除済み商品のnilは除く）
func (o Order) PurchasedProductIDs() []string {
	seen := make(map[string]struct{}, len(o.OrderItems))
	ids := make([]string, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		if it.ProductID == nil || *it.ProductID == "" {
			continue
		}
		if _, ok := seen[*it.ProductID]; ok {
			continue
		}
		seen[*it.ProductID] = struct{}{}
		ids = append(ids, *it.ProductID)
	}
	return ids
}
