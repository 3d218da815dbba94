package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storedash/internal/domain/model"
	"storedash/internal/domain/payment"
	"storedash/internal/metrics"
	repo "storedash/internal/repository"
)

// 情報が無いときの既定値
const unknownValue = "Unknown"

type WebhookUsecase struct {
	tx        repo.TransactionManager
	events    repo.WebhookEventRepository
	gateway   PaymentGateway
	dedup     EventDeduper
	publisher OrderEventPublisher
	ids       IDGenerator
	clock     Clock
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewWebhookUsecase(
	tx repo.TransactionManager,
	events repo.WebhookEventRepository,
	gateway PaymentGateway,
	dedup EventDeduper,
	publisher OrderEventPublisher,
	ids IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	log *slog.Logger,
) *WebhookUsecase {
	return &WebhookUsecase{
		tx:        tx,
		events:    events,
		gateway:   gateway,
		dedup:     dedup,
		publisher: publisher,
		ids:       ids,
		clock:     clock,
		metrics:   m,
		log:       log,
	}
}

// Handle は決済プロバイダからの通知を1件処理する。
// 同じイベントが何度届いても結果は1回分と同じになる。
// エラーを返すとプロバイダが再送する（4xxは再送しても直らない）。
func (u *WebhookUsecase) Handle(ctx context.Context, payload []byte, signature string) error {
	ev, err := u.gateway.ParseWebhook(payload, signature)
	if errors.Is(err, payment.ErrMalformedEvent) {
		u.log.WarnContext(ctx, "webhook event malformed", "err", err)
		u.metrics.ObserveWebhook("", metrics.ResultMalformed)
		return NewHTTPError(http.StatusBadRequest, "malformed event")
	}
	if err != nil {
		u.log.WarnContext(ctx, "webhook signature verification failed", "err", err)
		u.metrics.ObserveWebhook("", metrics.ResultInvalidSignature)
		return NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	orderID := ""
	if ev.CheckoutSession != nil {
		orderID = ev.CheckoutSession.Metadata.Get(payment.MetaOrderID)
	}
	log := u.log.With("event_id", ev.ID, "event_type", ev.Type, "order_id", orderID)

	// Redisで処理済みなら即200
	if seen, err := u.dedup.Seen(ctx, ev.ID); err != nil {
		log.WarnContext(ctx, "dedup lookup failed", "err", err)
	} else if seen {
		log.InfoContext(ctx, "webhook replay skipped")
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultReplay)
		return nil
	}

	provider := u.gateway.Provider()
	stored, err := u.events.Record(ctx, model.WebhookEvent{
		ID:              u.ids.NewID(),
		Provider:        provider,
		ProviderEventID: ev.ID,
		EventType:       ev.Type,
		OrderID:         orderID,
		PayloadJSON:     string(ev.Payload),
	})
	if err != nil {
		log.ErrorContext(ctx, "record webhook event failed", "err", err)
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultError)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if stored.Processed() {
		log.InfoContext(ctx, "webhook replay skipped")
		u.markDone(ctx, log, ev.ID)
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultReplay)
		return nil
	}

	if ev.Type != payment.EventTypeCheckoutSessionCompleted {
		u.markProcessed(ctx, log, provider, ev.ID)
		u.markDone(ctx, log, ev.ID)
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultIgnored)
		return nil
	}

	if orderID == "" {
		log.WarnContext(ctx, "webhook without order id")
		u.markFailed(ctx, log, provider, ev.ID, "order id is missing")
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultRejected)
		return NewHTTPError(http.StatusBadRequest, "order id is missing")
	}

	settled, first, err := u.settle(ctx, orderID, ev.CheckoutSession)
	if err != nil {
		u.markFailed(ctx, log, provider, ev.ID, err.Error())
		if he, ok := AsHTTPError(err); ok && he.Status == http.StatusNotFound {
			log.WarnContext(ctx, "webhook for unknown order")
			u.metrics.ObserveWebhook(ev.Type, metrics.ResultRejected)
			return err
		}
		log.ErrorContext(ctx, "settle order failed", "err", err)
		u.metrics.ObserveWebhook(ev.Type, metrics.ResultError)
		return err
	}

	u.markProcessed(ctx, log, provider, ev.ID)
	u.markDone(ctx, log, ev.ID)

	if first {
		paid := model.OrderPaidEvent{
			OrderID:    settled.ID,
			StoreID:    settled.StoreID,
			ProductIDs: settled.PurchasedProductIDs(),
			TotalPrice: settled.TotalPrice().StringFixed(2),
			PaidAt:     u.clock.Now(),
		}
		if settled.UserID != nil {
			paid.UserID = *settled.UserID
		}
		if err := u.publisher.PublishOrderPaid(ctx, paid); err != nil {
			log.WarnContext(ctx, "publish order paid failed", "err", err)
		}
	}

	log.InfoContext(ctx, "order settled", "first_transition", first)
	u.metrics.ObserveWebhook(ev.Type, metrics.ResultSettled)
	return nil
}

// 注文の行ロックを取って決済確定まで1トランザクションで行う。
// どの手順も冗長に呼ばれて構わない（再送で同じ値に収束する）。
func (u *WebhookUsecase) settle(ctx context.Context, orderID string, cs *payment.CompletedCheckoutSession) (model.Order, bool, error) {
	md := cs.Metadata
	var (
		settled model.Order
		first   bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		first = !o.IsPaid

		// 購入者（既にいれば上書きしない）
		userName := md.GetOr(payment.MetaUserName, unknownValue)
		userEmail := md.GetOr(payment.MetaUserEmail, unknownValue)
		if uid := md.Get(payment.MetaUserID); uid != "" {
			user, err := r.Users().FindOrCreate(ctx, model.User{ID: uid, Name: userName, Email: userEmail})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			userName, userEmail = user.Name, user.Email
		}

		s := repo.OrderSettlement{
			Address:   cs.Address.String(),
			Phone:     cs.Phone,
			UserName:  userName,
			UserEmail: userEmail,
		}
		if err := r.Orders().Settle(ctx, o.ID, s); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 配送フォーム（注文に紐付くものが既にあればそれを優先）
		oid := o.ID
		if _, err := r.ShipmentForms().CreateIfAbsentForOrder(ctx, model.ShipmentForm{
			ID:               u.ids.NewID(),
			OrderID:          &oid,
			SenderName:       md.GetOr(payment.MetaSenderName, unknownValue),
			SenderPhone:      md.GetOr(payment.MetaSenderPhone, unknownValue),
			RecipientName:    md.GetOr(payment.MetaRecipientName, unknownValue),
			RecipientPhone:   md.GetOr(payment.MetaRecipientPhone, unknownValue),
			RecipientAddress: md.GetOr(payment.MetaRecipientAddress, unknownValue),
			AdditionalNotes:  md.Get(payment.MetaAdditionalNotes),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 1点物なので売れた商品は再購入できないようにする
		if ids := o.PurchasedProductIDs(); len(ids) > 0 {
			if err := r.Products().ArchiveByIDs(ctx, ids); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if first {
			before, _ := json.Marshal(map[string]any{"is_paid": false})
			after, _ := json.Marshal(map[string]any{
				"is_paid": true,
				"address": s.Address,
				"phone":   s.Phone,
			})
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ID:           u.ids.NewID(),
				ActorUserID:  model.AuditActorPaymentWebhook,
				Action:       model.AuditActionSettleOrder,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   o.ID,
				BeforeJSON:   string(before),
				AfterJSON:    string(after),
				CreatedAt:    u.clock.Now(),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		o.IsPaid = true
		o.Address = s.Address
		o.Phone = s.Phone
		o.UserName = s.UserName
		o.UserEmail = s.UserEmail
		settled = o
		return nil
	})
	if err != nil {
		return model.Order{}, false, err
	}
	return settled, first, nil
}

func (u *WebhookUsecase) markProcessed(ctx context.Context, log *slog.Logger, provider, eventID string) {
	if err := u.events.MarkProcessed(ctx, provider, eventID, u.clock.Now()); err != nil {
		log.WarnContext(ctx, "mark webhook processed failed", "err", err)
	}
}

func (u *WebhookUsecase) markFailed(ctx context.Context, log *slog.Logger, provider, eventID, reason string) {
	if err := u.events.MarkFailed(ctx, provider, eventID, reason); err != nil {
		log.WarnContext(ctx, "record webhook error failed", "err", err)
	}
}

func (u *WebhookUsecase) markDone(ctx context.Context, log *slog.Logger, eventID string) {
	if err := u.dedup.MarkDone(ctx, eventID); err != nil {
		log.WarnContext(ctx, "dedup mark failed", "err", err)
	}
}
