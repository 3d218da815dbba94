package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"storedash/internal/domain/payment"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const ProviderStripe = "stripe"

type StripeGateway struct {
	sessions      *session.Client
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) Provider() string { return ProviderStripe }

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, in payment.CheckoutSessionInput) (payment.CheckoutSession, error) {
	params := buildCheckoutSessionParams(in)
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return payment.CheckoutSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return payment.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// 請求先住所は必須、電話番号も集める
func buildCheckoutSessionParams(in payment.CheckoutSessionInput) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(in.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:                lineItems,
		SuccessURL:               stripe.String(in.SuccessURL),
		CancelURL:                stripe.String(in.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// 署名を検証してからイベントを読む。APIバージョン違いでは落とさない。
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (payment.WebhookEvent, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return payment.WebhookEvent{}, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}

	out := payment.WebhookEvent{
		ID:      ev.ID,
		Type:    string(ev.Type),
		Payload: payload,
	}
	if out.Type != payment.EventTypeCheckoutSessionCompleted || ev.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return payment.WebhookEvent{}, fmt.Errorf("%w: decode checkout session: %v", payment.ErrMalformedEvent, err)
	}
	out.CheckoutSession = toCompletedSession(cs)
	return out, nil
}

func toCompletedSession(cs stripe.CheckoutSession) *payment.CompletedCheckoutSession {
	out := &payment.CompletedCheckoutSession{
		ID:       cs.ID,
		Metadata: payment.Metadata(cs.Metadata),
	}
	if cd := cs.CustomerDetails; cd != nil {
		out.Phone = cd.Phone
		if a := cd.Address; a != nil {
			out.Address = &payment.Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				City:       a.City,
				State:      a.State,
				PostalCode: a.PostalCode,
				Country:    a.Country,
			}
		}
	}
	return out
}
