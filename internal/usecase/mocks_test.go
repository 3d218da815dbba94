package usecase_test

import (
	"context"

	"storedash/internal/domain/model"
	repo "storedash/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks（読み取り系usecase向け）
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	panic("not used in query tests")
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	panic("not used in query tests")
}

func (m *OrderRepoMock) ListByStore(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Settle(ctx context.Context, orderID string, s repo.OrderSettlement) error {
	panic("not used in query tests")
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	panic("not used in query tests")
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) FindByID(ctx context.Context, storeID string) (model.Store, error) {
	args := m.Called(ctx, storeID)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

func (m *StoreRepoMock) FindByIDAndOwner(ctx context.Context, storeID string, ownerUserID string) (model.Store, error) {
	args := m.Called(ctx, storeID, ownerUserID)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}
