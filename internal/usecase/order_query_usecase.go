package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storedash/internal/domain/model"
	repo "storedash/internal/repository"
)

// 読み取り専用なのでTxは使わない
type OrderQueryUsecase struct {
	orders repo.OrderRepository
	stores repo.StoreRepository
}

func NewOrderQueryUsecase(orders repo.OrderRepository, stores repo.StoreRepository) *OrderQueryUsecase {
	return &OrderQueryUsecase{orders: orders, stores: stores}
}

// 明細・購入者・配送フォーム付きで1件
func (u *OrderQueryUsecase) GetOrder(ctx context.Context, storeID, orderID string) (OrderOutput, error) {
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "order id is required")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.StoreID != storeID {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toOrderOutput(o), nil
}

// ストアフロント用。購入者IDが無ければ401。
func (u *OrderQueryUsecase) ListBuyerOrders(ctx context.Context, storeID, userID string) ([]OrderOutput, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return u.list(ctx, repo.OrderListFilter{StoreID: storeID, UserID: &userID})
}

// ダッシュボード用。オーナーだけ。userIDは任意の絞り込み。
func (u *OrderQueryUsecase) ListStoreOrders(ctx context.Context, callerID, storeID, userID string) ([]OrderOutput, error) {
	if strings.TrimSpace(callerID) == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	if _, err := u.stores.FindByIDAndOwner(ctx, storeID, callerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "unauthorized")
		}
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	f := repo.OrderListFilter{StoreID: storeID}
	if uid := strings.TrimSpace(userID); uid != "" {
		f.UserID = &uid
	}
	return u.list(ctx, f)
}

func (u *OrderQueryUsecase) list(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, error) {
	orders, err := u.orders.ListByStore(ctx, f)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutputs(orders), nil
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}
