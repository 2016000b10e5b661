package server

import (
	"context"

	"app/internal/config"
	"app/internal/handler"
	appmw "app/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Newはルーティング済みのechoを組み立てる
func New(
	cfg config.Config,
	logger *zerolog.Logger,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	txnH *handler.TransactionHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.Recover())

	registerRoutes(e, cfg, authH, orderH, txnH)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

func Shutdown(ctx context.Context, e *echo.Echo) error {
	return e.Shutdown(ctx)
}
