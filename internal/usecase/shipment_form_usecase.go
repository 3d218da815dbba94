package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storedash/internal/domain/model"
	repo "storedash/internal/repository"
)

type ShipmentFormUsecase struct {
	tx  repo.TransactionManager
	ids IDGenerator
}

func NewShipmentFormUsecase(tx repo.TransactionManager, ids IDGenerator) *ShipmentFormUsecase {
	return &ShipmentFormUsecase{tx: tx, ids: ids}
}

type CreateShipmentFormInput struct {
	OrderID *string
	ShipmentFormInput
}

// 必須項目のうち最初に空だったもののメッセージを返す
func (in ShipmentFormInput) missingField() string {
	fields := []struct {
		value string
		name  string
	}{
		{in.SenderName, "sender name"},
		{in.SenderPhone, "sender phone"},
		{in.RecipientName, "recipient name"},
		{in.RecipientPhone, "recipient phone"},
		{in.RecipientAddress, "recipient address"},
		{in.AdditionalNotes, "additional notes"},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name + " is required"
		}
	}
	return ""
}

// 注文IDを指定した場合は、そのストアの未払い注文にだけ紐付けられる。
// 注文行をロックしてから作るので、決済確定と同時に来ても順番に処理される。
func (u *ShipmentFormUsecase) Create(ctx context.Context, storeID string, in CreateShipmentFormInput) (ShipmentFormOutput, error) {
	if msg := in.missingField(); msg != "" {
		return ShipmentFormOutput{}, NewHTTPError(http.StatusBadRequest, msg)
	}

	var orderID *string
	if in.OrderID != nil && strings.TrimSpace(*in.OrderID) != "" {
		v := strings.TrimSpace(*in.OrderID)
		orderID = &v
	}

	var out ShipmentFormOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Stores().FindByID(ctx, storeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusForbidden, "unauthorized")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if orderID != nil {
			o, err := r.Orders().FindByIDForUpdate(ctx, *orderID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			// 他ストアの注文は存在しない扱い
			if o.StoreID != storeID {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			// 支払い済みなら配送先は決済時のもので確定している
			if o.IsPaid {
				return NewHTTPError(http.StatusConflict, "order already paid")
			}
		}

		form, err := r.ShipmentForms().Create(ctx, model.ShipmentForm{
			ID:               u.ids.NewID(),
			OrderID:          orderID,
			SenderName:       strings.TrimSpace(in.SenderName),
			SenderPhone:      strings.TrimSpace(in.SenderPhone),
			RecipientName:    strings.TrimSpace(in.RecipientName),
			RecipientPhone:   strings.TrimSpace(in.RecipientPhone),
			RecipientAddress: strings.TrimSpace(in.RecipientAddress),
			AdditionalNotes:  strings.TrimSpace(in.AdditionalNotes),
		})
		if errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusConflict, "shipment form already exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toShipmentFormOutput(form)
		return nil
	})
	if err != nil {
		return ShipmentFormOutput{}, err
	}
	return out, nil
}
