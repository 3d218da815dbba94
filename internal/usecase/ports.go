package usecase

import (
	"context"
	"time"

	"storedash/internal/domain/model"
	"storedash/internal/domain/payment"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 決済プロバイダ（Stripe）への窓口
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in payment.CheckoutSessionInput) (payment.CheckoutSession, error)

	// 生のbodyと署名ヘッダを検証してからイベントを返す。
	// 検証失敗は payment.ErrInvalidSignature を包んで返す。
	ParseWebhook(payload []byte, signature string) (payment.WebhookEvent, error)

	// ledgerに記録するプロバイダ名
	Provider() string
}

// 処理済みwebhookイベントの高速チェック（Redis）。
// 落ちていても正しさはDB側の冪等性で担保する。
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkDone(ctx context.Context, eventID string) error
}

// 注文イベントの送信（Kafka）。commit後に呼ぶ。
type OrderEventPublisher interface {
	PublishOrderPaid(ctx context.Context, ev model.OrderPaidEvent) error
	PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error
}
