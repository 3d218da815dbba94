package handler_test

import (
	"context"
	"time"

	"storedash/internal/domain/model"
	"storedash/internal/domain/payment"
	repo "storedash/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTx の中で渡す repos を固定して handler テストを回す
type TxManagerMock struct {
	Repos *TxReposMock
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	products   *ProductRepoMock
	stores     *StoreRepoMock
	forms      *ShipmentFormRepoMock
	audits     *AuditRepoMock
}

func newTxRepos() *TxReposMock {
	return &TxReposMock{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		products:   new(ProductRepoMock),
		stores:     new(StoreRepoMock),
		forms:      new(ShipmentFormRepoMock),
		audits:     new(AuditRepoMock),
	}
}

func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository           { return r.products }
func (r *TxReposMock) Users() repo.UserRepository                 { panic("not used in handler tests") }
func (r *TxReposMock) Stores() repo.StoreRepository               { return r.stores }
func (r *TxReposMock) ShipmentForms() repo.ShipmentFormRepository { return r.forms }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository         { return r.audits }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByStore(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Settle(ctx context.Context, orderID string, s repo.OrderSettlement) error {
	panic("not used in handler tests")
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	panic("not used in handler tests")
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, storeID, ids)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) ArchiveByIDs(ctx context.Context, ids []string) error {
	panic("not used in handler tests")
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

type ShipmentFormRepoMock struct{ mock.Mock }

func (m *ShipmentFormRepoMock) Create(ctx context.Context, form model.ShipmentForm) (model.ShipmentForm, error) {
	args := m.Called(ctx, form)
	f, _ := args.Get(0).(model.ShipmentForm)
	return f, args.Error(1)
}

func (m *ShipmentFormRepoMock) CreateIfAbsentForOrder(ctx context.Context, form model.ShipmentForm) (bool, error) {
	panic("not used in handler tests")
}

func (m *ShipmentFormRepoMock) FindByOrderID(ctx context.Context, orderID string) (model.ShipmentForm, error) {
	panic("not used in handler tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type WebhookEventRepoMock struct{ mock.Mock }

func (m *WebhookEventRepoMock) Record(ctx context.Context, ev model.WebhookEvent) (model.WebhookEvent, error) {
	args := m.Called(ctx, ev)
	out, _ := args.Get(0).(model.WebhookEvent)
	return out, args.Error(1)
}

func (m *WebhookEventRepoMock) MarkProcessed(ctx context.Context, provider string, id string, at time.Time) error {
	args := m.Called(ctx, provider, id)
	return args.Error(0)
}

func (m *WebhookEventRepoMock) MarkFailed(ctx context.Context, provider string, id string, reason string) error {
	args := m.Called(ctx, provider, id, reason)
	return args.Error(0)
}

// =====================
// ports
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Provider() string { return "stripe" }

func (m *GatewayMock) CreateCheckoutSession(ctx context.Context, in payment.CheckoutSessionInput) (payment.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(payment.CheckoutSession)
	return s, args.Error(1)
}

func (m *GatewayMock) ParseWebhook(payload []byte, signature string) (payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	ev, _ := args.Get(0).(payment.WebhookEvent)
	return ev, args.Error(1)
}

type staticIDs struct{ id string }

func (g staticIDs) NewID() string { return g.id }

type staticClock struct{}

func (staticClock) Now() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
