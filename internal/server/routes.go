package server

import (
	"net/http"

	"storedash/internal/config"
	"storedash/internal/handler"
	"storedash/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	Checkout      *handler.CheckoutHandler
	Webhook       *handler.WebhookHandler
	Orders        *handler.OrderHandler
	Dashboard     *handler.DashboardOrderHandler
	ShipmentForms *handler.ShipmentFormHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, gatherer prometheus.Gatherer, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))

	h.Checkout.RegisterRoutes(e)
	h.Webhook.RegisterRoutes(e)
	h.Orders.RegisterRoutes(e, cfg)
	h.Dashboard.RegisterRoutes(e, cfg)
	h.ShipmentForms.RegisterRoutes(e)
}
