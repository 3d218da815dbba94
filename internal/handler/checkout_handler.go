package handler

import (
	"net/http"

	"storedash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ストアフロントからの購入リクエスト（キーはフロントに合わせてcamelCase）
type CheckoutRequest struct {
	ProductIDs []string             `json:"productIds"`
	UserID     string               `json:"userId"`
	UserName   string               `json:"userName"`
	UserEmail  string               `json:"userEmail"`
	FormData   *ShipmentFormPayload `json:"formData"`
}

type ShipmentFormPayload struct {
	SenderName       string `json:"senderName"`
	SenderPhone      string `json:"senderPhone"`
	RecipientName    string `json:"recipientName"`
	RecipientPhone   string `json:"recipientPhone"`
	RecipientAddress string `json:"recipientAddress"`
	AdditionalNotes  string `json:"additionalNotes"`
}

func (p *ShipmentFormPayload) toInput() *usecase.ShipmentFormInput {
	if p == nil {
		return nil
	}
	return &usecase.ShipmentFormInput{
		SenderName:       p.SenderName,
		SenderPhone:      p.SenderPhone,
		RecipientName:    p.RecipientName,
		RecipientPhone:   p.RecipientPhone,
		RecipientAddress: p.RecipientAddress,
		AdditionalNotes:  p.AdditionalNotes,
	}
}

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/:storeId/checkout", h.checkout)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{
		StoreID:    c.Param("storeId"),
		ProductIDs: req.ProductIDs,
		UserID:     req.UserID,
		UserName:   req.UserName,
		UserEmail:  req.UserEmail,
		FormData:   req.FormData.toInput(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
