package handler

import (
	"net/http"

	"storedash/internal/config"
	"storedash/internal/middleware"
	"storedash/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// ストアフロント向けの注文取得と、オーナーのステータス更新
type OrderHandler struct {
	query  *usecase.OrderQueryUsecase
	status *usecase.OrderStatusUsecase
}

func NewOrderHandler(query *usecase.OrderQueryUsecase, status *usecase.OrderStatusUsecase) *OrderHandler {
	return &OrderHandler{query: query, status: status}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/:storeId/orders")

	g.GET("", h.list)
	g.GET("/:orderId", h.detail)
	g.PATCH("/:orderId", h.updateStatus, middleware.AuthJWT(cfg))
}

// GET /api/:storeId/orders?userId=
func (h *OrderHandler) list(c echo.Context) error {
	outs, err := h.query.ListBuyerOrders(c.Request().Context(), c.Param("storeId"), c.QueryParam("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.query.GetOrder(c.Request().Context(), c.Param("storeId"), c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.status.UpdateStatus(c.Request().Context(), userID, c.Param("storeId"), c.Param("orderId"), usecase.UpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
