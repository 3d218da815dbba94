package payment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storedash/internal/domain/payment"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func signedPayload(t *testing.T, body map[string]any, secret string) ([]byte, string) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   raw,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func completedBody() map[string]any {
	return map[string]any{
		"id":          "evt_test_1",
		"object":      "event",
		"type":        "checkout.session.completed",
		"api_version": "2020-08-27",
		"data": map[string]any{
			"object": map[string]any{
				"id":     "cs_test_1",
				"object": "checkout.session",
				"metadata": map[string]any{
					"orderId":       "order-1",
					"userId":        "user_abc",
					"recipientName": "Taro",
				},
				"customer_details": map[string]any{
					"phone": "+15550100",
					"address": map[string]any{
						"line1":       "1 Main St",
						"line2":       nil,
						"city":        "Springfield",
						"state":       "IL",
						"postal_code": "62701",
						"country":     "US",
					},
				},
			},
		},
	}
}

func TestParseWebhook_ValidSignature_DecodesSession(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, completedBody(), testWebhookSecret)

	ev, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", ev.ID)
	assert.Equal(t, payment.EventTypeCheckoutSessionCompleted, ev.Type)
	assert.Equal(t, payload, ev.Payload)
	require.NotNil(t, ev.CheckoutSession)
	assert.Equal(t, "order-1", ev.CheckoutSession.Metadata.Get(payment.MetaOrderID))
	assert.Equal(t, "+15550100", ev.CheckoutSession.Phone)
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, US", ev.CheckoutSession.Address.String())
}

func TestParseWebhook_WrongSecret(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, completedBody(), "whsec_other")

	_, err := g.ParseWebhook(payload, header)
	assert.True(t, errors.Is(err, payment.ErrInvalidSignature))
}

func TestParseWebhook_TamperedBody(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, completedBody(), testWebhookSecret)
	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] = ' '

	_, err := g.ParseWebhook(tampered, header)
	assert.True(t, errors.Is(err, payment.ErrInvalidSignature))
}

func TestParseWebhook_MissingHeader(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload, _ := signedPayload(t, completedBody(), testWebhookSecret)

	_, err := g.ParseWebhook(payload, "")
	assert.True(t, errors.Is(err, payment.ErrInvalidSignature))
}

func TestParseWebhook_SignedButUndecodableSession(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	body := completedBody()
	body["data"].(map[string]any)["object"].(map[string]any)["metadata"] = "not-a-map"
	payload, header := signedPayload(t, body, testWebhookSecret)

	_, err := g.ParseWebhook(payload, header)
	require.Error(t, err)
	assert.True(t, errors.Is(err, payment.ErrMalformedEvent))
	assert.False(t, errors.Is(err, payment.ErrInvalidSignature))
}

func TestParseWebhook_OtherEventType_NoSession(t *testing.T) {
	g := NewStripeGateway("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, map[string]any{
		"id":     "evt_test_2",
		"object": "event",
		"type":   "payment_intent.created",
		"data":   map[string]any{"object": map[string]any{"id": "pi_1", "object": "payment_intent"}},
	}, testWebhookSecret)

	ev, err := g.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", ev.Type)
	assert.Nil(t, ev.CheckoutSession)
}

func TestBuildCheckoutSessionParams(t *testing.T) {
	params := buildCheckoutSessionParams(payment.CheckoutSessionInput{
		Currency: "usd",
		LineItems: []payment.LineItem{
			{Name: "Vase", UnitAmount: 1000, Quantity: 1},
			{Name: "Lamp", UnitAmount: 2550, Quantity: 1},
		},
		SuccessURL: "https://store.example/cart?success=1",
		CancelURL:  "https://store.example/cart?canceled=1",
		Metadata:   map[string]string{payment.MetaOrderID: "order-1", payment.MetaAdditionalNotes: ""},
	})

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	assert.Equal(t, string(stripe.CheckoutSessionBillingAddressCollectionRequired), *params.BillingAddressCollection)
	assert.True(t, *params.PhoneNumberCollection.Enabled)
	assert.Equal(t, "https://store.example/cart?success=1", *params.SuccessURL)
	assert.Equal(t, "https://store.example/cart?canceled=1", *params.CancelURL)

	require.Len(t, params.LineItems, 2)
	assert.Equal(t, int64(1000), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2550), *params.LineItems[1].PriceData.UnitAmount)
	assert.Equal(t, "Lamp", *params.LineItems[1].PriceData.ProductData.Name)
	assert.Equal(t, "usd", *params.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(1), *params.LineItems[0].Quantity)

	assert.Equal(t, "order-1", params.Metadata[payment.MetaOrderID])
	assert.Contains(t, params.Metadata, payment.MetaAdditionalNotes)
}

func TestProvider(t *testing.T) {
	assert.Equal(t, "stripe", NewStripeGateway("sk", "whsec").Provider())
}
