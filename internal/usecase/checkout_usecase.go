package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"storedash/internal/domain/model"
	"storedash/internal/domain/payment"
	"storedash/internal/metrics"
	repo "storedash/internal/repository"
)

// 決済画面の設定（configから組み立てる）
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type CheckoutUsecase struct {
	tx      repo.TransactionManager
	gateway PaymentGateway
	ids     IDGenerator
	cfg     CheckoutConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	gateway PaymentGateway,
	ids IDGenerator,
	cfg CheckoutConfig,
	m *metrics.Metrics,
	log *slog.Logger,
) *CheckoutUsecase {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &CheckoutUsecase{tx: tx, gateway: gateway, ids: ids, cfg: cfg, metrics: m, log: log}
}

// 配送フォームの入力（checkoutではメタデータに載せるだけ）
type ShipmentFormInput struct {
	SenderName       string
	SenderPhone      string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	AdditionalNotes  string
}

type CheckoutInput struct {
	StoreID    string
	ProductIDs []string
	UserID     string
	UserName   string
	UserEmail  string
	FormData   *ShipmentFormInput
}

type CheckoutOutput struct {
	URL string `json:"url"`
}

// 未払いの注文を作ってから決済セッションを作る。
// 決済に失敗しても注文は残る（未払いのまま）。
func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	ids := compactIDs(in.ProductIDs)
	if len(ids) == 0 {
		u.metrics.ObserveCheckout(metrics.ResultRejected)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "product ids are required")
	}
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.UserName) == "" || strings.TrimSpace(in.UserEmail) == "" {
		u.metrics.ObserveCheckout(metrics.ResultRejected)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "user information is required")
	}
	if in.FormData == nil {
		u.metrics.ObserveCheckout(metrics.ResultRejected)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "form data is required")
	}

	userID := strings.TrimSpace(in.UserID)
	order := model.Order{
		ID:        u.ids.NewID(),
		StoreID:   in.StoreID,
		UserID:    &userID,
		UserName:  strings.TrimSpace(in.UserName),
		UserEmail: strings.TrimSpace(in.UserEmail),
		IsPaid:    false,
		Status:    model.OrderStatusReceived,
	}
	var lineItems []payment.LineItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		products, err := r.Products().FindByIDs(ctx, in.StoreID, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		byID := make(map[string]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// 明細はリクエストの順に並べる。見つからないID・他ストア・アーカイブ済みは黙って落とす
		items := make([]model.OrderItem, 0, len(products))
		lineItems = make([]payment.LineItem, 0, len(products))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok || p.IsArchived {
				continue
			}
			pid := p.ID
			items = append(items, model.OrderItem{
				ID:              u.ids.NewID(),
				OrderID:         order.ID,
				ProductID:       &pid,
				ProductName:     p.Name,
				ProductPrice:    p.Price,
				ProductImageURL: p.ImageURL(),
			})
			lineItems = append(lineItems, payment.LineItem{
				Name:       p.Name,
				UnitAmount: payment.ToMinorUnits(p.Price),
				Quantity:   1,
			})
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "no purchasable products")
		}

		if err := r.Orders().Create(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
			u.metrics.ObserveCheckout(metrics.ResultRejected)
		} else {
			u.metrics.ObserveCheckout(metrics.ResultError)
		}
		return CheckoutOutput{}, err
	}

	session, err := u.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionInput{
		Currency:   u.cfg.Currency,
		LineItems:  lineItems,
		SuccessURL: u.cfg.SuccessURL,
		CancelURL:  u.cfg.CancelURL,
		Metadata:   checkoutMetadata(order.ID, in),
	})
	if err != nil {
		u.log.ErrorContext(ctx, "create checkout session failed", "order_id", order.ID, "err", err)
		u.metrics.ObserveCheckout(metrics.ResultError)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "payment error")
	}

	u.log.InfoContext(ctx, "checkout session created", "order_id", order.ID, "session_id", session.ID, "items", len(lineItems))
	u.metrics.ObserveCheckout(metrics.ResultCreated)
	return CheckoutOutput{URL: session.URL}, nil
}

// webhookで注文と配送情報を復元するためのメタデータ
func checkoutMetadata(orderID string, in CheckoutInput) map[string]string {
	f := in.FormData
	return map[string]string{
		payment.MetaOrderID:          orderID,
		payment.MetaUserID:           strings.TrimSpace(in.UserID),
		payment.MetaUserName:         strings.TrimSpace(in.UserName),
		payment.MetaUserEmail:        strings.TrimSpace(in.UserEmail),
		payment.MetaSenderName:       f.SenderName,
		payment.MetaSenderPhone:      f.SenderPhone,
		payment.MetaRecipientName:    f.RecipientName,
		payment.MetaRecipientPhone:   f.RecipientPhone,
		payment.MetaRecipientAddress: f.RecipientAddress,
		payment.MetaAdditionalNotes:  f.AdditionalNotes,
	}
}

// 空白を除いて重複を消す（順序は保つ）
func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
