package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storedash/internal/domain/model"
	"storedash/internal/metrics"
	repo "storedash/internal/repository"
)

type OrderStatusUsecase struct {
	tx        repo.TransactionManager
	publisher OrderEventPublisher
	ids       IDGenerator
	clock     Clock
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewOrderStatusUsecase(
	tx repo.TransactionManager,
	publisher OrderEventPublisher,
	ids IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	log *slog.Logger,
) *OrderStatusUsecase {
	return &OrderStatusUsecase{tx: tx, publisher: publisher, ids: ids, clock: clock, metrics: m, log: log}
}

type UpdateOrderStatusInput struct {
	Status string
}

// ストアオーナーが表示用ステータスを書き換える。
// どのステータスからどのステータスへも変更できる（支払い状態には触らない）。
func (u *OrderStatusUsecase) UpdateStatus(ctx context.Context, callerID, storeID, orderID string, in UpdateOrderStatusInput) (OrderOutput, error) {
	if strings.TrimSpace(callerID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if newStatus == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "status is required")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "order id is required")
	}
	if !newStatus.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var (
		out    OrderOutput
		before model.OrderStatus
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// ストアが無い場合も「自分のストアではない」扱い
		if _, err := r.Stores().FindByIDAndOwner(ctx, storeID, callerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusForbidden, "unauthorized")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.StoreID != storeID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		before = o.Status
		if err := r.Orders().UpdateStatus(ctx, o.ID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ID:           u.ids.NewID(),
			ActorUserID:  callerID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   `{"status":"` + string(before) + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = newStatus
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if err := u.publisher.PublishOrderStatusChanged(ctx, model.OrderStatusChangedEvent{
		OrderID:    out.ID,
		StoreID:    out.StoreID,
		FromStatus: before,
		ToStatus:   newStatus,
		ChangedBy:  callerID,
		ChangedAt:  u.clock.Now(),
	}); err != nil {
		u.log.WarnContext(ctx, "publish order status changed failed", "order_id", out.ID, "err", err)
	}

	u.metrics.ObserveStatusUpdate(string(newStatus))
	return out, nil
}
