package repository

import (
	"context"

	"storedash/internal/domain/model"
)

type ShipmentFormRepository interface {
	// 同じ注文に既にあればErrConflict
	Create(ctx context.Context, form model.ShipmentForm) (model.ShipmentForm, error)

	// order_idで既にあれば何もしない。作ったらtrue。
	CreateIfAbsentForOrder(ctx context.Context, form model.ShipmentForm) (bool, error)

	FindByOrderID(ctx context.Context, orderID string) (model.ShipmentForm, error)
}
