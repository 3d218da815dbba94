package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storedash/internal/config"
	"storedash/internal/metrics"
	mw "storedash/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

// New は共通ミドルウェアとルートを登録したechoを返す
func New(cfg config.Config, log *slog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(mw.Metrics(m))
	e.Use(echomw.CORSWithConfig(corsConfig(cfg)))

	RegisterRoutes(e, cfg, gatherer, h)
	return e
}

// ストアフロントと管理画面は別オリジン
func corsConfig(cfg config.Config) echomw.CORSConfig {
	origins := cfg.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}
}

// ctxがキャンセルされたら処理中のリクエストを待って止める
func Run(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
