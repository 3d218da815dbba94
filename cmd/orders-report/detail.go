package main

import (
	"context"
	"errors"
	"fmt"

	gormrepo "storedash/internal/infra/repository"
	"storedash/internal/report"
	repo "storedash/internal/repository"

	"gorm.io/gorm"
)

// 注文本体・明細・購入者・配送フォームを個別に引く
func loadDetail(ctx context.Context, gdb *gorm.DB, orders repo.OrderRepository, storeID, orderID string) (report.OrderDetail, error) {
	o, err := orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && o.StoreID != storeID) {
		return report.OrderDetail{}, fmt.Errorf("order %s not found in store %s", orderID, storeID)
	}
	if err != nil {
		return report.OrderDetail{}, err
	}

	items, err := gormrepo.NewOrderItemGormRepository(gdb).ListByOrderID(ctx, o.ID)
	if err != nil {
		return report.OrderDetail{}, err
	}
	d := report.OrderDetail{Order: o, Items: items}

	if o.UserID != nil {
		u, err := gormrepo.NewUserGormRepository(gdb).FindByID(ctx, *o.UserID)
		if err != nil {
			return report.OrderDetail{}, err
		}
		d.Buyer = u
	}

	form, err := gormrepo.NewShipmentFormGormRepository(gdb).FindByOrderID(ctx, o.ID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
	case err != nil:
		return report.OrderDetail{}, err
	default:
		d.Form = &form
	}
	return d, nil
}
