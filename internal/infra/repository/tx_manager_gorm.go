package repository

import (
	"context"

	repo "storedash/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	products      repo.ProductRepository
	users         repo.UserRepository
	stores        repo.StoreRepository
	shipmentForms repo.ShipmentFormRepository
	auditLogs     repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) Stores() repo.StoreRepository               { return r.stores }
func (r *txReposGorm) ShipmentForms() repo.ShipmentFormRepository { return r.shipmentForms }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxRepos(tx))
	})
}

func newTxRepos(db *gorm.DB) *txReposGorm {
	return &txReposGorm{
		orders:        NewOrderGormRepository(db),
		orderItems:    NewOrderItemGormRepository(db),
		products:      NewProductGormRepository(db),
		users:         NewUserGormRepository(db),
		stores:        NewStoreGormRepository(db),
		shipmentForms: NewShipmentFormGormRepository(db),
		auditLogs:     NewAuditLogGormRepository(db),
	}
}

var (
	_ repo.OrderRepository        = (*OrderGormRepository)(nil)
	_ repo.OrderItemRepository    = (*OrderItemGormRepository)(nil)
	_ repo.ProductRepository      = (*ProductGormRepository)(nil)
	_ repo.UserRepository         = (*UserGormRepository)(nil)
	_ repo.StoreRepository        = (*StoreGormRepository)(nil)
	_ repo.ShipmentFormRepository = (*ShipmentFormGormRepository)(nil)
	_ repo.AuditLogRepository     = (*AuditLogGormRepository)(nil)
	_ repo.WebhookEventRepository = (*WebhookEventGormRepository)(nil)
	_ repo.TransactionManager     = (*TxManagerGorm)(nil)
)
