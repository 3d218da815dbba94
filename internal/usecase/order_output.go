package usecase

import (
	"time"

	"storedash/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemOutput struct {
	ID              string          `json:"id"`
	ProductID       *string         `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	ProductImageURL string          `json:"product_image_url"`
}

type UserOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ShipmentFormOutput struct {
	ID               string  `json:"id"`
	OrderID          *string `json:"order_id"`
	SenderName       string  `json:"sender_name"`
	SenderPhone      string  `json:"sender_phone"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	AdditionalNotes  string  `json:"additional_notes"`
}

type OrderOutput struct {
	ID           string              `json:"id"`
	StoreID      string              `json:"store_id"`
	UserID       *string             `json:"user_id"`
	UserName     string              `json:"user_name"`
	UserEmail    string              `json:"user_email"`
	Address      string              `json:"address"`
	Phone        string              `json:"phone"`
	IsPaid       bool                `json:"is_paid"`
	Status       string              `json:"status"`
	TotalPrice   string              `json:"total_price"`
	Products     string              `json:"products"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Items        []OrderItemOutput   `json:"items"`
	User         *UserOutput         `json:"user,omitempty"`
	ShipmentForm *ShipmentFormOutput `json:"shipment_form,omitempty"`
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		outItems = append(outItems, OrderItemOutput{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductPrice:    it.ProductPrice,
			ProductImageURL: it.ProductImageURL,
		})
	}

	out := OrderOutput{
		ID:         o.ID,
		StoreID:    o.StoreID,
		UserID:     o.UserID,
		UserName:   o.UserName,
		UserEmail:  o.UserEmail,
		Address:    o.Address,
		Phone:      o.Phone,
		IsPaid:     o.IsPaid,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice().StringFixed(2),
		Products:   o.ProductNames(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      outItems,
	}
	if o.User != nil {
		out.User = &UserOutput{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	if o.ShipmentForm != nil {
		f := toShipmentFormOutput(*o.ShipmentForm)
		out.ShipmentForm = &f
	}
	return out
}

func toShipmentFormOutput(f model.ShipmentForm) ShipmentFormOutput {
	return ShipmentFormOutput{
		ID:               f.ID,
		OrderID:          f.OrderID,
		SenderName:       f.SenderName,
		SenderPhone:      f.SenderPhone,
		RecipientName:    f.RecipientName,
		RecipientPhone:   f.RecipientPhone,
		RecipientAddress: f.RecipientAddress,
		AdditionalNotes:  f.AdditionalNotes,
	}
}
