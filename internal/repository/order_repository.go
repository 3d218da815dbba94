package repository

import (
	"context"

	"storedash/internal/domain/model"
)

// ストアの注文一覧の絞り込み
type OrderListFilter struct {
	StoreID string
	UserID  *string
}

// 決済確定で上書きする項目
type OrderSettlement struct {
	Address   string
	Phone     string
	UserName  string
	UserEmail string
}

type OrderRepository interface {
	// 明細は含めない（OrderItemRepository.CreateBulkで入れる）
	Create(ctx context.Context, order model.Order) error

	// 明細・購入者・配送フォームを含めて1件取得
	FindByID(ctx context.Context, orderID string) (model.Order, error)

	// 行ロックを取って明細付きで取得（決済確定用）
	FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error)

	// 作成日時の新しい順。明細と購入者を含む。
	ListByStore(ctx context.Context, f OrderListFilter) ([]model.Order, error)

	// is_paid=true と住所・電話・購入者名を書き込む（何度呼んでも同じ結果）
	Settle(ctx context.Context, orderID string, s OrderSettlement) error

	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
}
