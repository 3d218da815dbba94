package middleware

import (
	"time"

	"storedash/internal/metrics"

	"github.com/labstack/echo/v4"
)

// ルートのパターン（/api/:storeId/orders など）ごとに件数と時間を取る
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(c.Request().Method+" "+path, status, time.Since(start))
			return err
		}
	}
}
