package handler

import (
	"net/http"

	"storedash/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ShipmentFormCreateRequest struct {
	OrderID *string `json:"orderId"`
	ShipmentFormPayload
}

type ShipmentFormHandler struct {
	uc *usecase.ShipmentFormUsecase
}

func NewShipmentFormHandler(uc *usecase.ShipmentFormUsecase) *ShipmentFormHandler {
	return &ShipmentFormHandler{uc: uc}
}

func (h *ShipmentFormHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/:storeId/formdata", h.create)
}

func (h *ShipmentFormHandler) create(c echo.Context) error {
	var req ShipmentFormCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), c.Param("storeId"), usecase.CreateShipmentFormInput{
		OrderID:           req.OrderID,
		ShipmentFormInput: *req.ShipmentFormPayload.toInput(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
