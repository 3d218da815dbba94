package handler

import (
	"net/http"

	"storedash/internal/config"
	"storedash/internal/middleware"
	"storedash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ストアオーナーのダッシュボード用
type DashboardOrderHandler struct {
	query *usecase.OrderQueryUsecase
}

func NewDashboardOrderHandler(query *usecase.OrderQueryUsecase) *DashboardOrderHandler {
	return &DashboardOrderHandler{query: query}
}

func (h *DashboardOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/:storeId/dashboard")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/orders", h.list)
}

func (h *DashboardOrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	outs, err := h.query.ListStoreOrders(c.Request().Context(), userID, c.Param("storeId"), c.QueryParam("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}
