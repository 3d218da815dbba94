package payment

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// 署名検証に失敗した（改ざん・secret違い・壊れたpayload）
var ErrInvalidSignature = errors.New("invalid webhook signature")

// 署名は正しいが中身が読めない
var ErrMalformedEvent = errors.New("malformed webhook event")

// 処理対象のイベント種別
const EventTypeCheckoutSessionCompleted = "checkout.session.completed"

// checkout作成時に決済セッションへ埋め込むメタデータのキー。
// webhookで注文と配送情報を復元する唯一の経路。
const (
	MetaOrderID          = "orderId"
	MetaUserID           = "userId"
	MetaUserName         = "userName"
	MetaUserEmail        = "userEmail"
	MetaSenderName       = "senderName"
	MetaSenderPhone      = "senderPhone"
	MetaRecipientName    = "recipientName"
	MetaRecipientPhone   = "recipientPhone"
	MetaRecipientAddress = "recipientAddress"
	MetaAdditionalNotes  = "additionalNotes"
)

// 決済画面に出す1行（数量は常に1）
type LineItem struct {
	Name       string
	UnitAmount int64 // 最小通貨単位（セント）
	Quantity   int64
}

type CheckoutSessionInput struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// 決済側で入力された請求先住所
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// 空の項目を飛ばして ", " で連結する
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// checkout.session.completed の中身
type CompletedCheckoutSession struct {
	ID       string
	Metadata Metadata
	Address  *Address
	Phone    string
}

// 検証済みのwebhookイベント
type WebhookEvent struct {
	ID      string
	Type    string
	Payload []byte

	// Type が checkout.session.completed のときだけ入る
	CheckoutSession *CompletedCheckoutSession
}

// メタデータは信用しない。どのキーも欠けている前提で読む。
type Metadata map[string]string

func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[key])
}

// 値が空ならfallbackを返す
func (m Metadata) GetOr(key string, fallback string) string {
	if v := m.Get(key); v != "" {
		return v
	}
	return fallback
}

// 価格を最小通貨単位に変換（×100して整数に丸める）
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
