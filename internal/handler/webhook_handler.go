package handler

import (
	"io"
	"net/http"

	"storedash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Stripeのイベントは数KB。これを超えるものは受けない。
const maxWebhookBodyBytes = 64 << 10

type WebhookHandler struct {
	uc *usecase.WebhookUsecase
}

func NewWebhookHandler(uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/webhook", h.receive)
}

// 署名検証には生のbodyが必要なのでBindしない
func (h *WebhookHandler) receive(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if len(body) > maxWebhookBodyBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if err := h.uc.Handle(c.Request().Context(), body, sig); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
