package model

import "time"

// 注文ステータス更新、決済確定など。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//webhookで支払い済みにした操作。
	AuditActionSettleOrder AuditAction = "SETTLE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// webhook経由の操作はユーザーではなく決済側が主体。
const AuditActorPaymentWebhook = "payment-webhook"

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`

	//操作したユーザー（ストアオーナー）のID、またはpayment-webhook。
	ActorUserID string `gorm:"type:varchar(64);not null;index" json:"actor_user_id"`

	//Actionは操作の種類（UPDATE_ORDER_STATUS / SETTLE_ORDER）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID。
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
